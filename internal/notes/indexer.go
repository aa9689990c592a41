package notes

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shashwatest/professorai/internal/content"
	"github.com/shashwatest/professorai/internal/embeddings"
	"github.com/shashwatest/professorai/internal/telemetry"
	"github.com/shashwatest/professorai/internal/util"
	"github.com/shashwatest/professorai/internal/vector"
)

// ErrEmbeddingsUnavailable is returned by operations that require an
// embedding provider when none is configured. Callers should treat it
// as "feature disabled", not as a crash condition.
var ErrEmbeddingsUnavailable = errors.New("no embedding provider available")

// Indexer embeds classified study items and persists them as notes.
// It is the downstream consumer of the embeddings service: the service
// pushes a provider (or nil) into the Indexer's slot whenever user
// settings change.
type Indexer struct {
	store   NoteStore
	metrics *telemetry.MetricsCollector
	logger  *slog.Logger

	mu       sync.RWMutex
	provider embeddings.Provider
}

// NewIndexer creates an Indexer over the given store. The provider
// slot starts empty; use SetEmbeddingProvider or the embeddings
// service's RefreshDownstream to populate it.
func NewIndexer(store NoteStore, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		store:   store,
		metrics: telemetry.NewMetricsCollector(),
		logger:  logger,
	}
}

// SetEmbeddingProvider replaces the provider in the mutable slot.
// A nil provider disables semantic indexing until the next refresh.
func (ix *Indexer) SetEmbeddingProvider(provider embeddings.Provider) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.provider = provider
}

// Provider returns the provider currently held in the slot, or nil.
func (ix *Indexer) Provider() embeddings.Provider {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.provider
}

// IndexItems embeds a batch of classified items and stores each one as
// a note, returning the assigned note IDs in input order.
//
// When no provider is available the items are still persisted with an
// empty embedding and are skipped by search ranking. A failed embed
// call fails the whole operation with nothing stored.
func (ix *Indexer) IndexItems(ctx context.Context, items []content.Item) ([]string, error) {
	provider := ix.Provider()

	var vectors [][]float64
	if provider != nil {
		texts := make([]string, len(items))
		for i, item := range items {
			texts[i] = item.Content
		}

		start := time.Now()
		var err error
		vectors, err = provider.EmbedBatch(ctx, texts)
		ix.metrics.RecordTimer(telemetry.MetricResponseTimeEmbed, time.Since(start))
		ix.metrics.IncrementCounter(apiCallMetric(provider.Kind()), 1)
		if err != nil {
			ix.metrics.IncrementCounter(telemetry.MetricAPICallsFailure, 1)
			return nil, err
		}
		ix.metrics.IncrementCounter(telemetry.MetricAPICallsSuccess, 1)
	} else {
		ix.metrics.IncrementCounter(telemetry.MetricIndexingSkipped, int64(len(items)))
		ix.logger.Debug("Indexing without embeddings, no provider available", "items", len(items))
	}

	ids := make([]string, 0, len(items))
	for i, item := range items {
		var embedded []float32
		if vectors != nil {
			embedded = vector.Float64SliceToFloat32(vectors[i])
		}

		embeddingBytes, err := vector.Float32SliceToBytes(embedded)
		if err != nil {
			return nil, err
		}

		timestamp := time.Now()
		id := util.GenerateHash(item.Content, timestamp.UnixNano())

		if err := ix.store.Store(id, item.Content, item.Type, embeddingBytes, timestamp); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	ix.metrics.IncrementCounter(telemetry.MetricNotesIndexed, int64(len(ids)))
	return ids, nil
}

// Search embeds the query and returns the most similar stored notes.
// Returns ErrEmbeddingsUnavailable when no provider is configured.
func (ix *Indexer) Search(ctx context.Context, query string, limit int) ([]Note, error) {
	provider := ix.Provider()
	if provider == nil {
		return nil, ErrEmbeddingsUnavailable
	}

	queryVector, err := provider.EmbedText(ctx, query)
	ix.metrics.IncrementCounter(apiCallMetric(provider.Kind()), 1)
	if err != nil {
		ix.metrics.IncrementCounter(telemetry.MetricAPICallsFailure, 1)
		return nil, err
	}
	ix.metrics.IncrementCounter(telemetry.MetricAPICallsSuccess, 1)
	ix.metrics.IncrementCounter(telemetry.MetricNotesSearches, 1)

	return ix.store.Search(vector.Float64SliceToFloat32(queryVector), limit)
}

// apiCallMetric maps a provider kind to its API call counter.
func apiCallMetric(kind embeddings.ProviderKind) string {
	switch kind {
	case embeddings.KindGoogle:
		return telemetry.MetricAPICallsGoogle
	case embeddings.KindMeta:
		return telemetry.MetricAPICallsMeta
	default:
		return telemetry.MetricAPICallsOpenAI
	}
}

// Metrics returns the metrics collector for this indexer.
func (ix *Indexer) Metrics() *telemetry.MetricsCollector {
	return ix.metrics
}
