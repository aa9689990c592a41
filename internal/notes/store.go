// Package notes provides persistence and semantic indexing for the
// classified study notes produced by the Professor AI service.
package notes

import (
	"time"

	"github.com/shashwatest/professorai/internal/content"
)

// Note is a stored study note with its classification.
type Note struct {
	ID        string
	Content   string
	Type      content.ContentType
	Timestamp time.Time
}

// NoteStore defines the interface for storing and retrieving notes.
type NoteStore interface {
	// Initialize initializes the store with configuration options.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// Store stores a note with its embedding in the database.
	Store(id string, noteText string, noteType content.ContentType, embedding []byte, timestamp time.Time) error

	// Search searches for notes similar to the given embedding.
	Search(queryEmbedding []float32, limit int) ([]Note, error)

	// Delete removes a note by ID.
	Delete(id string) error

	// Clear removes all notes, returning the number deleted.
	Clear() (int, error)
}
