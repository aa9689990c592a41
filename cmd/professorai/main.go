package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashwatest/professorai/internal/config"
	"github.com/shashwatest/professorai/internal/content"
	"github.com/shashwatest/professorai/internal/embeddings"
	"github.com/shashwatest/professorai/internal/errortypes"
	"github.com/shashwatest/professorai/internal/notes"
	"github.com/shashwatest/professorai/internal/server"
)

func main() {
	// Initialize logging first thing
	appLogger := setupLogging()

	appLogger.Info("Professor AI MCP Server - Starting...")

	// Load configuration (defaults, config file, environment)
	cfg, err := config.InitGlobal(config.DefaultConfigFilename)
	if err != nil {
		errortypes.LogError(appLogger, err)
		appLogger.Error("Failed to load configuration")
		os.Exit(1)
	}

	// Reconfigure logging based on config
	appLogger = configureLogging(cfg)

	// Initialize the note store
	store := notes.NewSQLiteNoteStore()
	if err := store.Initialize(cfg.Store.SQLitePath); err != nil {
		errortypes.LogError(appLogger, errortypes.DatabaseError(err, "Failed to initialize SQLite note store"))
		os.Exit(1)
	}
	defer store.Close()
	appLogger.Info("SQLite note store initialized", "path", cfg.Store.SQLitePath)

	// Initialize the embeddings service and the note indexer, and push
	// the resolved provider (or nil) into the indexer's slot.
	embeddingsService := embeddings.NewService(cfg, appLogger)
	indexer := notes.NewIndexer(store, appLogger)
	embeddingsService.RefreshDownstream(indexer)

	// Initialize the MCP server
	srv := server.NewNoteToolServer(store, indexer, content.NewProcessor(), embeddingsService)
	if err := srv.Initialize(); err != nil {
		errortypes.LogError(appLogger, errortypes.ConfigError(err, "Failed to initialize MCP server"))
		os.Exit(1)
	}
	appLogger.Info("MCP server initialized")

	// Handle graceful shutdown
	setupSignalHandler(store, appLogger)

	// Start the MCP server (this will block until server is terminated)
	appLogger.Info("Starting MCP server...")
	if err := srv.Start(); err != nil {
		errortypes.LogError(appLogger, errortypes.APIError(err, "MCP server failed"))
		os.Exit(1)
	}
}

// setupLogging configures and returns the application logger
func setupLogging() *slog.Logger {
	level := slog.LevelInfo
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(levelStr)); err == nil {
			level = parsed
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// configureLogging rebuilds the logger from loaded configuration
func configureLogging(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Logging.Level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(cfg.Logging.Level)); err == nil {
			level = parsed
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(store notes.NoteStore, log *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		// Close the store to ensure all data is saved
		if err := store.Close(); err != nil {
			errortypes.LogError(log, errortypes.DatabaseError(err, "Error closing store during shutdown"))
		} else {
			log.Info("Database closed successfully")
		}

		log.Info("Shutdown complete")
		os.Exit(0)
	}()
}
