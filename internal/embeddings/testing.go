package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockResponseConfig holds configuration for mock API responses.
type MockResponseConfig struct {
	StatusCode   int
	ResponseBody interface{}
	Headers      map[string]string
}

// MockServer creates a test server that returns the configured response.
func MockServer(t *testing.T, config MockResponseConfig) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}

		if _, exists := config.Headers["Content-Type"]; !exists {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(config.StatusCode)

		if config.ResponseBody != nil {
			var respBytes []byte
			var err error

			switch body := config.ResponseBody.(type) {
			case string:
				respBytes = []byte(body)
			case []byte:
				respBytes = body
			default:
				respBytes, err = json.Marshal(body)
				if err != nil {
					t.Fatalf("Failed to marshal mock response: %v", err)
				}
			}

			if _, err := w.Write(respBytes); err != nil {
				t.Fatalf("Failed to write response body: %v", err)
			}
		}
	}))
}

// TestProvider is a simple implementation of Provider for testing.
// It returns a fixed vector per input text, or the configured error.
type TestProvider struct {
	kind        ProviderKind
	returnError error
	vector      []float64
}

// NewTestProvider creates a new TestProvider.
func NewTestProvider(kind ProviderKind, vector []float64, returnError error) *TestProvider {
	return &TestProvider{
		kind:        kind,
		vector:      vector,
		returnError: returnError,
	}
}

// Kind returns the provider kind.
func (p *TestProvider) Kind() ProviderKind {
	return p.kind
}

// EmbedText returns the configured vector or error.
func (p *TestProvider) EmbedText(_ context.Context, _ string) ([]float64, error) {
	return p.vector, p.returnError
}

// EmbedBatch returns one copy of the configured vector per input.
func (p *TestProvider) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	if p.returnError != nil {
		return nil, p.returnError
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = p.vector
	}
	return vectors, nil
}

// CapturingProvider is a provider that captures the inputs for testing.
type CapturingProvider struct {
	TestProvider
	capturedTexts []string
}

// NewCapturingProvider creates a new CapturingProvider.
func NewCapturingProvider(kind ProviderKind, vector []float64, returnError error) *CapturingProvider {
	return &CapturingProvider{
		TestProvider: TestProvider{kind: kind, vector: vector, returnError: returnError},
	}
}

// EmbedText captures the input and delegates to the batch path.
func (p *CapturingProvider) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch captures inputs and returns the configured response.
func (p *CapturingProvider) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	p.capturedTexts = append(p.capturedTexts, texts...)
	return p.TestProvider.EmbedBatch(context.Background(), texts)
}

// CapturedTexts returns every text passed to an embed operation.
func (p *CapturingProvider) CapturedTexts() []string {
	return p.capturedTexts
}
