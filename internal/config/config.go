// Package config provides the layered configuration for the
// Professor AI service: defaults, config file, then environment.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"

	"github.com/shashwatest/professorai/internal/embeddings"
)

// Global configuration instance
var (
	// Global is the global configuration instance
	Global *Config
	// initOnce ensures initialization happens only once
	initOnce sync.Once
)

// InitGlobal initializes the global configuration
func InitGlobal(configPath string) (*Config, error) {
	var err error
	initOnce.Do(func() {
		Global, err = LoadConfigWithPath(configPath)
	})
	return Global, err
}

// Config represents the Professor AI service configuration
type Config struct {
	// Store contains storage-related configuration.
	Store struct {
		// SQLitePath is the path to the SQLite database file.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH" validate:"required"`
	} `json:"store"`

	// Embeddings contains embedding-provider configuration.
	Embeddings struct {
		// Provider is the name of the embedding provider to use
		// ("openai", "google", or "meta").
		Provider string `json:"provider" env:"EMBEDDINGS_PROVIDER"`

		// OpenAIAPIKey is the API key for the OpenAI provider.
		OpenAIAPIKey string `json:"openai_api_key" env:"OPENAI_API_KEY"`

		// GeminiAPIKey is the API key shared by the Gemini chat
		// feature and the Google embedding provider.
		GeminiAPIKey string `json:"gemini_api_key" env:"GEMINI_API_KEY"`

		// MetaAPIKey is the API key for the Meta provider.
		MetaAPIKey string `json:"meta_api_key" env:"META_API_KEY"`
	} `json:"embeddings"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".professoraiconfig"
	DefaultSQLitePath     = ".professorai.db"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Store.SQLitePath = DefaultSQLitePath
	config.Embeddings.Provider = string(embeddings.KindOpenAI)
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path
func LoadConfigWithPath(configPath string) (*Config, error) {
	// Create a default logger for configuration loading
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create default configuration
	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// File doesn't exist, return default config
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, nil
	}

	stdLogger.Info("Loading configuration", "path", configPath)

	// Create configurator instance
	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("PROFESSORAI")).
		WithValidator(configurator.NewDefaultValidator())

	// Load configuration
	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Store the config path for future operations
	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Save using configurator's SaveToFile function
	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Update internal state
	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// EmbeddingProvider returns the user's configured provider kind.
// Part of the embeddings.Settings contract.
func (c *Config) EmbeddingProvider() (embeddings.ProviderKind, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	switch kind := embeddings.ProviderKind(c.Embeddings.Provider); kind {
	case embeddings.KindOpenAI, embeddings.KindGoogle, embeddings.KindMeta:
		return kind, nil
	case "":
		return embeddings.KindOpenAI, nil
	default:
		return "", fmt.Errorf("unknown embeddings provider %q", c.Embeddings.Provider)
	}
}

// APIKey returns the stored API key for a credential namespace, or an
// empty string when none is configured. Part of the
// embeddings.Settings contract.
func (c *Config) APIKey(namespace string) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	switch namespace {
	case embeddings.NamespaceOpenAI:
		return c.Embeddings.OpenAIAPIKey, nil
	case embeddings.NamespaceGemini:
		return c.Embeddings.GeminiAPIKey, nil
	case embeddings.NamespaceMeta:
		return c.Embeddings.MetaAPIKey, nil
	default:
		return "", fmt.Errorf("unknown credential namespace %q", namespace)
	}
}
