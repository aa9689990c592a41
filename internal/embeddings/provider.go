// Package embeddings provides the pluggable text-embedding providers
// used by the Professor AI service, along with the selection and
// caching logic that picks a provider from user settings.
package embeddings

import (
	"context"
	"fmt"
	"time"
)

// ProviderKind identifies which external embeddings vendor a provider
// instance talks to.
type ProviderKind string

// Supported provider kinds.
const (
	KindOpenAI ProviderKind = "openai"
	KindGoogle ProviderKind = "google"
	KindMeta   ProviderKind = "meta"
)

// Credential namespaces used when looking up API keys in settings.
// Google reuses the key stored for the Gemini chat feature.
const (
	NamespaceOpenAI = "openai"
	NamespaceGemini = "gemini"
	NamespaceMeta   = "meta"
)

const (
	// DefaultTimeout bounds every provider HTTP call.
	DefaultTimeout = 30 * time.Second
)

// Provider is the capability contract every embeddings vendor fulfils.
// EmbedText is always behaviorally equivalent to EmbedBatch with a
// singleton input, so callers may use either entry point
// interchangeably.
type Provider interface {
	// EmbedText converts a single text into a vector representation.
	EmbedText(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch converts a batch of texts into vectors, one per
	// input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Kind returns the provider kind.
	Kind() ProviderKind
}

// Config holds common configuration for embedding providers.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ProviderError describes a failed remote embedding call: either a
// non-success HTTP status or a response that could not be parsed into
// the expected vector shape.
type ProviderError struct {
	Kind       ProviderKind
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s embeddings API error (status %d): %s", e.Kind, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s embeddings API error: %s", e.Kind, e.Body)
}
