// Package professorai wires the Professor AI classroom-assistant core:
// a pluggable embeddings layer, an AI-response classification pipeline,
// a SQLite-backed note store, and an MCP tool server exposing them.
package professorai

import (
	"context"
	"log/slog"

	"github.com/shashwatest/professorai/internal/config"
	"github.com/shashwatest/professorai/internal/content"
	"github.com/shashwatest/professorai/internal/embeddings"
	"github.com/shashwatest/professorai/internal/errortypes"
	"github.com/shashwatest/professorai/internal/notes"
	"github.com/shashwatest/professorai/internal/server"
)

// Config represents the configuration for the Professor AI service.
type Config = config.Config

// Server represents the Professor AI service.
type Server struct {
	config     *config.Config
	store      notes.NoteStore
	indexer    *notes.Indexer
	processor  *content.Processor
	embeddings *embeddings.Service
	toolServer server.NoteToolServer
	logger     *slog.Logger // Logger for this Server instance
}

// ServerOptions defines the options for creating a new Server.
type ServerOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewServer creates a new Professor AI Server with the given options.
// If opts.Config is provided, it will be used directly. Otherwise, if
// opts.ConfigPath is provided, configuration will be loaded from that
// path. If neither is provided, DefaultConfig() will be used.
func NewServer(opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		logger.Info("Using provided Config object for server initialization")
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration for server initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Warn("No Config object or ConfigPath provided, using default configuration for server initialization")
		cfg = DefaultConfig()
	}

	store, indexer, processor, embeddingsService, err := CreateComponents(cfg, logger)
	if err != nil {
		// CreateComponents already logs the specific error
		logger.Error("Failed to create components during server initialization", "error", err)
		return nil, err
	}

	logger.Info("Initializing note tool server component")
	mcpServer := server.NewNoteToolServer(store, indexer, processor, embeddingsService)
	err = mcpServer.Initialize()
	if err != nil {
		logger.Error("Failed to initialize MCP note tool server component", "error", err)
		return nil, errortypes.ConfigError(err, "Failed to initialize MCP note tool server component")
	}

	logger.Info("Professor AI server successfully initialized")
	return &Server{
		config:     cfg,
		store:      store,
		indexer:    indexer,
		processor:  processor,
		embeddings: embeddingsService,
		toolServer: mcpServer,
		logger:     logger,
	}, nil
}

// DefaultConfig returns the default configuration for the Professor AI service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// Start starts the Professor AI service.
func (s *Server) Start() error {
	s.logger.Info("Starting Professor AI service")
	return s.toolServer.Start()
}

// Stop stops the Professor AI service.
func (s *Server) Stop() error {
	s.logger.Info("Stopping Professor AI service")
	err := s.toolServer.Stop()
	if err != nil {
		s.logger.Error("Error stopping tool server", "error", err)
		return err
	}

	// Close the store
	s.logger.Info("Closing note store")
	err = s.store.Close()
	if err != nil {
		s.logger.Error("Failed to close note store", "error", err)
		return err
	}

	s.logger.Info("Professor AI service stopped")
	return nil
}

// ProcessAIResponse classifies raw AI output into typed items and saves
// them as session notes, returning the stored note IDs in input order.
func (s *Server) ProcessAIResponse(ctx context.Context, responseText string) ([]string, error) {
	lines := s.processor.SplitLines(responseText)
	items := s.processor.ProcessAIResponse(lines)
	s.logger.Debug("Classified AI response", "lines", len(lines), "items", len(items))

	if len(items) == 0 {
		return nil, nil
	}

	ids, err := s.indexer.IndexItems(ctx, items)
	if err != nil {
		s.logger.Error("Failed to index classified items", "error", err)
		return nil, err
	}

	s.logger.Info("Successfully saved classified notes", "count", len(ids))
	return ids, nil
}

// SearchNotes retrieves notes similar to the given query.
func (s *Server) SearchNotes(ctx context.Context, query string, limit int) ([]notes.Note, error) {
	s.logger.Debug("Searching notes", "query", query, "limit", limit)
	results, err := s.indexer.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("Failed to search notes", "error", err)
		return nil, err
	}

	s.logger.Info("Retrieved notes", "count", len(results))
	return results, nil
}

// RefreshEmbeddings invalidates the provider cache and pushes a freshly
// resolved provider into the indexer. Call after settings change.
func (s *Server) RefreshEmbeddings() {
	s.embeddings.InvalidateCache()
	s.embeddings.RefreshDownstream(s.indexer)
}

// GetStore returns the note store instance used by the server.
func (s *Server) GetStore() notes.NoteStore {
	return s.store
}

// GetIndexer returns the note indexer instance used by the server.
func (s *Server) GetIndexer() *notes.Indexer {
	return s.indexer
}

// GetEmbeddingsService returns the embeddings service used by the server.
func (s *Server) GetEmbeddingsService() *embeddings.Service {
	return s.embeddings
}

// CreateComponents creates and initializes the components of the
// Professor AI service without creating a server instance. This is
// useful for callers that need direct access to the store, indexer,
// processor, and embeddings service.
func CreateComponents(cfg *Config, logger *slog.Logger) (notes.NoteStore, *notes.Indexer, *content.Processor, *embeddings.Service, error) {
	if logger == nil {
		logger = slog.Default()
		logger.Debug("CreateComponents called with nil logger, defaulting to slog.Default()")
	}

	// Initialize SQLite note store
	logger.Info("Initializing SQLite note store", "path", cfg.Store.SQLitePath)
	store := notes.NewSQLiteNoteStore()
	err := store.Initialize(cfg.Store.SQLitePath)
	if err != nil {
		logger.Error("Failed to initialize SQLite note store", "path", cfg.Store.SQLitePath, "error", err)
		return nil, nil, nil, nil, errortypes.DatabaseError(err, "Failed to initialize SQLite note store")
	}

	// Initialize the classification processor
	processor := content.NewProcessor()

	// Initialize the embeddings service and indexer; a missing
	// provider disables semantic indexing, never fails startup.
	embeddingsService := embeddings.NewService(cfg, logger)
	indexer := notes.NewIndexer(store, logger)
	embeddingsService.RefreshDownstream(indexer)

	logger.Info("Components successfully initialized")
	return store, indexer, processor, embeddingsService, nil
}
