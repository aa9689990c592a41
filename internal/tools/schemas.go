// Package tools defines the MCP tool names and data structures
// for the Professor AI service.
package tools

const (
	// ToolProcessAIResponse is the name of the process_ai_response MCP tool
	ToolProcessAIResponse = "process_ai_response"

	// ToolSaveNote is the name of the save_note MCP tool
	ToolSaveNote = "save_note"

	// ToolSearchNotes is the name of the search_notes MCP tool
	ToolSearchNotes = "search_notes"

	// ToolDeleteNote is the name of the delete_note MCP tool
	ToolDeleteNote = "delete_note"

	// ToolClearNotes is the name of the clear_notes MCP tool
	ToolClearNotes = "clear_notes"

	// ToolRefreshEmbeddings is the name of the refresh_embeddings MCP tool
	ToolRefreshEmbeddings = "refresh_embeddings"

	// DefaultSearchLimit is the default number of results to return
	// when no limit is specified in a search_notes request
	DefaultSearchLimit = 5
)

// ClassifiedItem is a single classified fragment of AI output as it
// appears in tool responses.
type ClassifiedItem struct {
	// Content is the trimmed item text
	Content string `json:"content"`

	// Type is "topic" or "question"
	Type string `json:"type"`

	// ID is the identifier assigned to the stored note, when persisted
	ID string `json:"id,omitempty"`
}

// ProcessAIResponseRequest defines the input schema for process_ai_response tool
type ProcessAIResponseRequest struct {
	// ResponseText is the raw AI output to classify, line-oriented
	ResponseText string `json:"response_text"`

	// Persist stores the classified items as session notes when true
	Persist bool `json:"persist,omitempty"`
}

// ProcessAIResponseResponse defines the output schema for process_ai_response tool
type ProcessAIResponseResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Items contains the classified content items, in input order
	Items []ClassifiedItem `json:"items"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// SaveNoteRequest defines the input schema for save_note tool
type SaveNoteRequest struct {
	// Content is the note text to save
	Content string `json:"content"`

	// Type is "topic" or "question"; classified from content when empty
	Type string `json:"type,omitempty"`
}

// SaveNoteResponse defines the output schema for save_note tool
type SaveNoteResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// ID is the unique identifier assigned to the saved note
	ID string `json:"id"`

	// Type is the content type the note was stored with
	Type string `json:"type"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// SearchNotesRequest defines the input schema for search_notes tool
type SearchNotesRequest struct {
	// Query is the text to search for in the note store
	Query string `json:"query"`

	// Limit is the maximum number of results to return
	// If not specified, DefaultSearchLimit will be used
	Limit int `json:"limit,omitempty"`
}

// SearchNotesResponse defines the output schema for search_notes tool
type SearchNotesResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Results contains the matching notes, most similar first
	Results []ClassifiedItem `json:"results"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// DeleteNoteRequest defines the input schema for delete_note tool
type DeleteNoteRequest struct {
	// ID is the unique identifier of the note to delete
	ID string `json:"id"`
}

// DeleteNoteResponse defines the output schema for delete_note tool
type DeleteNoteResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// ClearNotesRequest defines the input schema for clear_notes tool
type ClearNotesRequest struct {
	// Confirmation is a required field to confirm the operation
	// Must be set to "confirm" to prevent accidental clearing
	Confirmation string `json:"confirmation"`
}

// ClearNotesResponse defines the output schema for clear_notes tool
type ClearNotesResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// DeletedCount is the number of notes removed
	DeletedCount int `json:"deleted_count"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// RefreshEmbeddingsRequest defines the input schema for refresh_embeddings tool
type RefreshEmbeddingsRequest struct{}

// RefreshEmbeddingsResponse defines the output schema for refresh_embeddings tool
type RefreshEmbeddingsResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Provider is the kind of the provider now in use, empty when disabled
	Provider string `json:"provider"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
