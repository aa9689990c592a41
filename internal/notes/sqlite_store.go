package notes

import (
	"fmt"
	"sort"
	"time"

	"crawshaw.io/sqlite"
	"github.com/shashwatest/professorai/internal/content"
	"github.com/shashwatest/professorai/internal/vector"
)

// SQLiteNoteStore is an implementation of NoteStore that uses SQLite.
type SQLiteNoteStore struct {
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteNoteStore creates a new SQLiteNoteStore instance.
func NewSQLiteNoteStore() *SQLiteNoteStore {
	return &SQLiteNoteStore{}
}

// Initialize initializes the store with the given database path.
func (s *SQLiteNoteStore) Initialize(dbPath string) error {
	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.conn = conn

	err = s.createTable()
	if err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// createTable creates the session_notes table if it doesn't exist.
func (s *SQLiteNoteStore) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS session_notes (
		id TEXT PRIMARY KEY,
		note_text TEXT NOT NULL,
		note_type TEXT NOT NULL,
		embedding BLOB NOT NULL,
		timestamp INTEGER NOT NULL
	);`

	stmt, err := s.conn.Prepare(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare create table statement: %w", err)
	}
	defer stmt.Reset()

	_, err = stmt.Step()
	if err != nil {
		return fmt.Errorf("failed to execute create table statement: %w", err)
	}

	return nil
}

// Close closes the store and releases any resources.
func (s *SQLiteNoteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Store stores a note in the database.
func (s *SQLiteNoteStore) Store(id string, noteText string, noteType content.ContentType, embedding []byte, timestamp time.Time) error {
	insertSQL := `
	INSERT OR REPLACE INTO session_notes (id, note_text, note_type, embedding, timestamp)
	VALUES (?, ?, ?, ?, ?);`

	stmt, err := s.conn.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	// Bind parameters - indices in sqlite are 1-based
	stmt.BindText(1, id)
	stmt.BindText(2, noteText)
	stmt.BindText(3, string(noteType))
	stmt.BindBytes(4, embedding)
	stmt.BindInt64(5, timestamp.Unix())

	_, err = stmt.Step()
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// Search searches for notes similar to the given embedding. Similarity
// is computed in Go over all stored embeddings, then results are
// ranked highest-first.
func (s *SQLiteNoteStore) Search(queryEmbedding []float32, limit int) ([]Note, error) {
	selectSQL := `
	SELECT id, note_text, note_type, embedding, timestamp FROM session_notes
	ORDER BY timestamp DESC;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	type scored struct {
		note       Note
		similarity float64
	}
	var results []scored

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			break
		}

		// Column indices are 0-based
		id := stmt.ColumnText(0)
		noteText := stmt.ColumnText(1)
		noteType := stmt.ColumnText(2)

		embeddingBytesLen := stmt.ColumnLen(3)
		embeddingBytes := make([]byte, embeddingBytesLen)
		stmt.ColumnBytes(3, embeddingBytes)

		timestamp := time.Unix(stmt.ColumnInt64(4), 0)

		storedEmbedding, err := vector.BytesToFloat32Slice(embeddingBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to convert embedding bytes for note %s: %w", id, err)
		}

		// Notes stored while embeddings were disabled carry an empty
		// vector and cannot be ranked; skip them.
		if len(storedEmbedding) == 0 {
			continue
		}

		similarity, err := vector.CosineSimilarity(queryEmbedding, storedEmbedding)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate similarity for note %s: %w", id, err)
		}

		results = append(results, scored{
			note: Note{
				ID:        id,
				Content:   noteText,
				Type:      content.ContentType(noteType),
				Timestamp: timestamp,
			},
			similarity: similarity,
		})
	}

	// Sort results by similarity (highest first)
	sort.Slice(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	if limit > len(results) {
		limit = len(results)
	}

	topNotes := make([]Note, limit)
	for i := 0; i < limit; i++ {
		topNotes[i] = results[i].note
	}

	return topNotes, nil
}

// Delete removes a note by ID.
func (s *SQLiteNoteStore) Delete(id string) error {
	deleteSQL := `DELETE FROM session_notes WHERE id = ?;`

	stmt, err := s.conn.Prepare(deleteSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, id)

	_, err = stmt.Step()
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// Clear removes all notes, returning the number deleted.
func (s *SQLiteNoteStore) Clear() (int, error) {
	countSQL := `SELECT COUNT(*) FROM session_notes;`

	stmt, err := s.conn.Prepare(countSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count statement: %w", err)
	}

	hasRow, err := stmt.Step()
	if err != nil {
		stmt.Reset()
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	count := 0
	if hasRow {
		count = int(stmt.ColumnInt64(0))
	}
	stmt.Reset()

	clearSQL := `DELETE FROM session_notes;`

	clearStmt, err := s.conn.Prepare(clearSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare clear statement: %w", err)
	}
	defer clearStmt.Reset()

	_, err = clearStmt.Step()
	if err != nil {
		return 0, fmt.Errorf("failed to clear notes: %w", err)
	}

	return count, nil
}
