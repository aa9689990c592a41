package embeddings

import (
	"log/slog"
	"sync"

	"github.com/shashwatest/professorai/internal/telemetry"
)

// Settings is the external collaborator the service reads the user's
// embedding configuration from.
type Settings interface {
	// EmbeddingProvider returns the user's configured provider kind.
	EmbeddingProvider() (ProviderKind, error)

	// APIKey returns the stored API key for a credential namespace,
	// or an empty string when none is stored.
	APIKey(namespace string) (string, error)
}

// ProviderConsumer is a downstream collaborator that owns a mutable
// embedding-provider slot, such as the note indexer.
type ProviderConsumer interface {
	SetEmbeddingProvider(provider Provider)
}

// Service resolves and caches the currently-selected embedding
// provider. It holds a single cached instance together with the kind
// it was built for; the pair is guarded as one unit so readers never
// observe a kind that doesn't match the cached instance.
//
// Embeddings are an optional enhancement: every failure mode of
// resolution yields a nil provider, never an error. Callers must
// treat a nil provider as "embeddings disabled".
type Service struct {
	settings Settings
	metrics  *telemetry.MetricsCollector
	logger   *slog.Logger

	mu         sync.Mutex
	cached     Provider
	cachedKind ProviderKind
}

// NewService creates a Service reading from the given settings.
// If logger is nil, slog.Default() is used.
func NewService(settings Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		settings: settings,
		metrics:  telemetry.NewMetricsCollector(),
		logger:   logger,
	}
}

// ResolveProvider returns the provider for the user's current
// configuration, or nil when no provider is available.
//
// When the cached instance matches the configured kind it is returned
// unchanged with no credential lookup and no I/O. Otherwise the
// credential for the configured kind is resolved and a fresh instance
// is built and cached. A missing or empty credential, or any settings
// failure, yields nil.
func (s *Service) ResolveProvider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind, err := s.settings.EmbeddingProvider()
	if err != nil {
		s.logger.Warn("Failed to read embedding provider setting", "error", err)
		return nil
	}

	if s.cached != nil && s.cachedKind == kind {
		s.metrics.IncrementCounter(telemetry.MetricEmbeddingsCacheHits, 1)
		return s.cached
	}
	s.metrics.IncrementCounter(telemetry.MetricEmbeddingsCacheMisses, 1)

	apiKey, err := s.settings.APIKey(Namespace(kind))
	if err != nil {
		s.logger.Warn("Failed to read embeddings API key", "provider", string(kind), "error", err)
		return nil
	}
	if apiKey == "" {
		s.logger.Debug("No embeddings API key configured, feature disabled", "provider", string(kind))
		return nil
	}

	provider, err := New(kind, apiKey, "")
	if err != nil {
		s.logger.Warn("Failed to build embedding provider", "provider", string(kind), "error", err)
		return nil
	}

	s.cached = provider
	s.cachedKind = kind
	s.metrics.IncrementCounter(telemetry.MetricEmbeddingsRebuilds, 1)
	s.logger.Info("Embedding provider resolved", "provider", string(kind))
	return provider
}

// InvalidateCache clears the cached provider unconditionally. Call it
// whenever the user changes provider settings or credentials. Idempotent.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.cachedKind = ""
}

// RefreshDownstream re-resolves the provider and pushes the result
// (possibly nil) into the consumer's provider slot. Best-effort: a nil
// result is pushed as-is so the consumer degrades gracefully.
func (s *Service) RefreshDownstream(consumer ProviderConsumer) {
	provider := s.ResolveProvider()
	if provider == nil {
		s.logger.Info("No embedding provider available, downstream disabled")
	}
	consumer.SetEmbeddingProvider(provider)
}

// Metrics returns the metrics collector for this service.
func (s *Service) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}
