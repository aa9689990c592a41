package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/localrivet/gomcp/server"

	"github.com/shashwatest/professorai/internal/content"
	"github.com/shashwatest/professorai/internal/embeddings"
	"github.com/shashwatest/professorai/internal/errortypes"
	"github.com/shashwatest/professorai/internal/notes"
	"github.com/shashwatest/professorai/internal/telemetry"
	"github.com/shashwatest/professorai/internal/tools"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// MCPNoteToolServer implements the NoteToolServer interface for
// handling MCP tool calls related to classifying AI responses and
// storing/searching session notes.
type MCPNoteToolServer struct {
	store      notes.NoteStore
	indexer    *notes.Indexer
	processor  *content.Processor
	embeddings *embeddings.Service
	mcpServer  server.Server
}

// NewNoteToolServer creates a new MCPNoteToolServer instance.
func NewNoteToolServer(store notes.NoteStore, indexer *notes.Indexer, processor *content.Processor, embeddingsService *embeddings.Service) *MCPNoteToolServer {
	return &MCPNoteToolServer{
		store:      store,
		indexer:    indexer,
		processor:  processor,
		embeddings: embeddingsService,
	}
}

// Initialize initializes the server with dependencies and configurations.
func (s *MCPNoteToolServer) Initialize() error {
	slog.Info("Initializing MCP Note Tool Server")

	if s.store == nil || s.indexer == nil || s.processor == nil || s.embeddings == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	// Create the MCP server
	srv := server.NewServer("professorai")

	// Register process_ai_response tool
	srv = srv.Tool(tools.ToolProcessAIResponse, "Classify raw AI output into topic and question items",
		s.handleProcessAIResponse)

	// Register save_note tool
	srv = srv.Tool(tools.ToolSaveNote, "Save a single note to the session store",
		s.handleSaveNote)

	// Register search_notes tool
	srv = srv.Tool(tools.ToolSearchNotes, "Search stored notes by semantic similarity",
		s.handleSearchNotes)

	// Register delete_note tool
	srv = srv.Tool(tools.ToolDeleteNote, "Delete a specific note by ID",
		s.handleDeleteNote)

	// Register clear_notes tool
	srv = srv.Tool(tools.ToolClearNotes, "Clear all notes from the store",
		s.handleClearNotes)

	// Register refresh_embeddings tool
	srv = srv.Tool(tools.ToolRefreshEmbeddings, "Re-resolve the embedding provider after settings change",
		s.handleRefreshEmbeddings)

	s.mcpServer = srv
	slog.Info("MCP Note Tool Server initialized successfully", "tool_count", 6)
	return nil
}

// Start starts the MCP server on the specified transport.
func (s *MCPNoteToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	slog.Info("Starting MCP Note Tool Server")

	// Start the server using stdio transport
	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPNoteToolServer) Stop() error {
	slog.Info("Stopping MCP Note Tool Server")
	// The server will exit when stdin is closed
	return nil
}

// handleProcessAIResponse handles the process_ai_response MCP tool call.
func (s *MCPNoteToolServer) handleProcessAIResponse(ctx *server.Context, req tools.ProcessAIResponseRequest) (tools.ProcessAIResponseResponse, error) {
	slog.Info("Processing process_ai_response request", "text_length", len(req.ResponseText), "persist", req.Persist)

	response := tools.ProcessAIResponseResponse{
		Status: "success",
	}

	lines := s.processor.SplitLines(req.ResponseText)
	items := s.processor.ProcessAIResponse(lines)

	metrics := s.indexer.Metrics()
	metrics.IncrementCounter(telemetry.MetricItemsClassified, int64(len(items)))
	metrics.IncrementCounter(telemetry.MetricLinesDropped, int64(len(lines)-len(items)))

	classified := make([]tools.ClassifiedItem, len(items))
	for i, item := range items {
		classified[i] = tools.ClassifiedItem{
			Content: item.Content,
			Type:    string(item.Type),
		}
	}

	if req.Persist && len(items) > 0 {
		ids, err := s.indexer.IndexItems(context.Background(), items)
		if err != nil {
			err = errortypes.APIError(err, "failed to index classified items").
				WithField("item_count", len(items))
			errortypes.LogError(nil, err)

			response.Status = "error"
			response.Error = err.Error()
			return response, nil
		}
		for i, id := range ids {
			classified[i].ID = id
		}
	}

	response.Items = classified
	slog.Info("Successfully processed AI response", "items", len(classified))

	return response, nil
}

// handleSaveNote handles the save_note MCP tool call.
func (s *MCPNoteToolServer) handleSaveNote(ctx *server.Context, req tools.SaveNoteRequest) (tools.SaveNoteResponse, error) {
	slog.Info("Processing save_note request", "content_length", len(req.Content))

	response := tools.SaveNoteResponse{
		Status: "success",
	}

	trimmed := content.ExtractContent(req.Content)
	if trimmed == "" {
		err := errortypes.ValidationError(errors.New("content cannot be empty"), "invalid save_note request")
		errortypes.LogError(nil, err)
		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	noteType := content.ContentType(req.Type)
	if noteType != content.TypeTopic && noteType != content.TypeQuestion {
		noteType = content.DetectFromContent(trimmed)
	}

	ids, err := s.indexer.IndexItems(context.Background(), []content.Item{{Content: trimmed, Type: noteType}})
	if err != nil {
		err = errortypes.APIError(err, "failed to save note").
			WithField("content_length", len(trimmed))
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	response.ID = ids[0]
	response.Type = string(noteType)
	slog.Info("Successfully saved note", "id", response.ID, "type", response.Type)

	return response, nil
}

// handleSearchNotes handles the search_notes MCP tool call.
func (s *MCPNoteToolServer) handleSearchNotes(ctx *server.Context, req tools.SearchNotesRequest) (tools.SearchNotesResponse, error) {
	slog.Info("Processing search_notes request", "query", req.Query, "limit", req.Limit)

	response := tools.SearchNotesResponse{
		Status: "success",
	}

	limit := req.Limit
	if limit <= 0 {
		limit = tools.DefaultSearchLimit
		slog.Debug("Using default limit for search_notes", "limit", limit)
	}

	results, err := s.indexer.Search(context.Background(), req.Query, limit)
	if err != nil {
		if errors.Is(err, notes.ErrEmbeddingsUnavailable) {
			// Feature disabled, not a failure
			response.Status = "error"
			response.Error = "semantic search unavailable: no embedding provider configured"
			slog.Warn("Search rejected, embeddings disabled")
			return response, nil
		}

		err = errortypes.APIError(err, "failed to search notes").
			WithField("query", req.Query)
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	items := make([]tools.ClassifiedItem, len(results))
	for i, note := range results {
		items[i] = tools.ClassifiedItem{
			ID:      note.ID,
			Content: note.Content,
			Type:    string(note.Type),
		}
	}

	response.Results = items
	slog.Info("Successfully searched notes", "count", len(items))

	return response, nil
}

// handleDeleteNote handles the delete_note MCP tool call.
func (s *MCPNoteToolServer) handleDeleteNote(ctx *server.Context, req tools.DeleteNoteRequest) (tools.DeleteNoteResponse, error) {
	slog.Info("Processing delete_note request", "id", req.ID)

	response := tools.DeleteNoteResponse{
		Status: "success",
	}

	if req.ID == "" {
		err := errortypes.ValidationError(errors.New("id cannot be empty for delete_note"), "invalid delete_note request")
		errortypes.LogError(nil, err)
		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	err := s.store.Delete(req.ID)
	if err != nil {
		err = errortypes.DatabaseError(err, "failed to delete note").
			WithField("note_id", req.ID)
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	slog.Info("Successfully deleted note", "id", req.ID)

	return response, nil
}

// handleClearNotes handles the clear_notes MCP tool call.
func (s *MCPNoteToolServer) handleClearNotes(ctx *server.Context, req tools.ClearNotesRequest) (tools.ClearNotesResponse, error) {
	slog.Info("Processing clear_notes request")

	response := tools.ClearNotesResponse{
		Status: "success",
	}

	// Check confirmation string
	if req.Confirmation != "confirm" {
		response.Status = "error"
		response.Error = "Confirmation required. Set confirmation to 'confirm' to proceed with clearing all notes"
		slog.Warn("Clear notes operation rejected: missing confirmation")
		return response, nil
	}

	count, err := s.store.Clear()
	if err != nil {
		err = errortypes.DatabaseError(err, "failed to clear note store")
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	slog.Info("Successfully cleared notes", "count", count)
	response.DeletedCount = count

	return response, nil
}

// handleRefreshEmbeddings handles the refresh_embeddings MCP tool call.
// Invoked after the user changes provider settings or credentials.
func (s *MCPNoteToolServer) handleRefreshEmbeddings(ctx *server.Context, req tools.RefreshEmbeddingsRequest) (tools.RefreshEmbeddingsResponse, error) {
	slog.Info("Processing refresh_embeddings request")

	response := tools.RefreshEmbeddingsResponse{
		Status: "success",
	}

	s.embeddings.InvalidateCache()
	s.embeddings.RefreshDownstream(s.indexer)

	if provider := s.indexer.Provider(); provider != nil {
		response.Provider = string(provider.Kind())
	}
	slog.Info("Embedding provider refreshed", "provider", response.Provider)

	return response, nil
}
