package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// openaiStyleHandler returns distinct vectors keyed by input position
// so order preservation can be verified.
func openaiStyleHandler(t *testing.T, capture *openaiRequest) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("Failed to read request body: %v", err)
		}
		if err := json.Unmarshal(body, capture); err != nil {
			t.Fatalf("Failed to parse request body: %v", err)
		}

		data := make([]map[string][]float64, len(capture.Input))
		for i := range capture.Input {
			data[i] = map[string][]float64{"embedding": {float64(i), float64(i) + 0.5}}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}
}

func TestOpenAIEmbedBatch(t *testing.T) {
	var captured openaiRequest
	mockServer := httptest.NewServer(openaiStyleHandler(t, &captured))
	defer mockServer.Close()

	provider := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: mockServer.URL})

	texts := []string{"photosynthesis", "newton's laws", "mitosis"}
	vectors, err := provider.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, v := range vectors {
		expected := []float64{float64(i), float64(i) + 0.5}
		if !reflect.DeepEqual(v, expected) {
			t.Errorf("Vector %d out of order: expected %v, got %v", i, expected, v)
		}
	}

	if !reflect.DeepEqual(captured.Input, texts) {
		t.Errorf("Expected request input %v, got %v", texts, captured.Input)
	}
	if captured.Model != defaultOpenAIModel {
		t.Errorf("Expected default model %q, got %q", defaultOpenAIModel, captured.Model)
	}
}

func TestOpenAIEmbedTextMatchesSingletonBatch(t *testing.T) {
	var captured openaiRequest
	mockServer := httptest.NewServer(openaiStyleHandler(t, &captured))
	defer mockServer.Close()

	provider := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: mockServer.URL})

	single, err := provider.EmbedText(context.Background(), "thermodynamics")
	if err != nil {
		t.Fatalf("Unexpected error from EmbedText: %v", err)
	}

	batch, err := provider.EmbedBatch(context.Background(), []string{"thermodynamics"})
	if err != nil {
		t.Fatalf("Unexpected error from EmbedBatch: %v", err)
	}

	if !reflect.DeepEqual(single, batch[0]) {
		t.Errorf("EmbedText result %v differs from EmbedBatch singleton %v", single, batch[0])
	}
}

func TestOpenAIErrorCarriesStatusAndBody(t *testing.T) {
	mockServer := MockServer(t, MockResponseConfig{
		StatusCode:   http.StatusUnauthorized,
		ResponseBody: `{"error": {"message": "invalid api key"}}`,
	})
	defer mockServer.Close()

	provider := NewOpenAIProvider(Config{APIKey: "bad-key", BaseURL: mockServer.URL})

	_, err := provider.EmbedBatch(context.Background(), []string{"anything"})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T: %v", err, err)
	}
	if provErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", provErr.StatusCode)
	}
	if provErr.Body == "" {
		t.Error("Expected error to carry the response body")
	}
}

func TestOpenAICountMismatchIsProviderError(t *testing.T) {
	mockServer := MockServer(t, MockResponseConfig{
		StatusCode:   http.StatusOK,
		ResponseBody: `{"data": [{"embedding": [0.1, 0.2]}]}`,
	})
	defer mockServer.Close()

	provider := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: mockServer.URL})

	_, err := provider.EmbedBatch(context.Background(), []string{"a", "b"})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError for count mismatch, got %v", err)
	}
}

func TestGoogleSequentialBatch(t *testing.T) {
	var requestedTexts []string
	var requestedKeys []string

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedKeys = append(requestedKeys, r.URL.Query().Get("key"))

		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.TaskType != googleTaskType {
			t.Errorf("Expected taskType %q, got %q", googleTaskType, req.TaskType)
		}

		text := req.Content.Parts[0].Text
		requestedTexts = append(requestedTexts, text)

		// Key the vector to the request index so ordering is observable
		idx := float64(len(requestedTexts) - 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string][]float64{"values": {idx, idx + 0.25}},
		})
	}))
	defer mockServer.Close()

	provider := NewGoogleProvider(Config{APIKey: "gemini-key", BaseURL: mockServer.URL})

	texts := []string{"cell biology", "what is entropy?", "the water cycle"}
	vectors, err := provider.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vectors))
	}
	if !reflect.DeepEqual(requestedTexts, texts) {
		t.Errorf("Expected one sequential call per text in order %v, got %v", texts, requestedTexts)
	}
	for i, v := range vectors {
		expected := []float64{float64(i), float64(i) + 0.25}
		if !reflect.DeepEqual(v, expected) {
			t.Errorf("Vector %d out of order: expected %v, got %v", i, expected, v)
		}
	}
	for _, key := range requestedKeys {
		if key != "gemini-key" {
			t.Errorf("Expected API key as query parameter, got %q", key)
		}
	}
}

func TestGoogleBatchFailsFast(t *testing.T) {
	callCount := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount == 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string][]float64{"values": {0.1}},
		})
	}))
	defer mockServer.Close()

	provider := NewGoogleProvider(Config{APIKey: "gemini-key", BaseURL: mockServer.URL})

	vectors, err := provider.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("Expected error when a single call fails")
	}
	if vectors != nil {
		t.Errorf("Expected no partial results, got %v", vectors)
	}
	if callCount != 2 {
		t.Errorf("Expected fail-fast after second call, server saw %d calls", callCount)
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", provErr.StatusCode)
	}
}

func TestGoogleTransportErrorRedactsKey(t *testing.T) {
	// Close the server up front so the request fails at the transport
	// layer, where the error text carries the full request URL.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	mockServer.Close()

	provider := NewGoogleProvider(Config{APIKey: "super-secret-key", BaseURL: mockServer.URL})

	_, err := provider.EmbedText(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Errorf("API key leaked into error text: %v", err)
	}
	if !strings.Contains(err.Error(), "REDACTED") {
		t.Errorf("Expected redaction marker in error text, got: %v", err)
	}
}

func TestMetaEmbedBatchUsesBearerAuth(t *testing.T) {
	var authHeader string
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")

		var req metaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		data := make([]map[string][]float64, len(req.Input))
		for i := range req.Input {
			data[i] = map[string][]float64{"embedding": {float64(i)}}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
	defer mockServer.Close()

	provider := NewMetaProvider(Config{APIKey: "meta-key", BaseURL: mockServer.URL})

	vectors, err := provider.EmbedBatch(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vectors))
	}
	if authHeader != "Bearer meta-key" {
		t.Errorf("Expected bearer auth header, got %q", authHeader)
	}
}

func TestProviderKinds(t *testing.T) {
	tests := []struct {
		provider Provider
		expected ProviderKind
	}{
		{NewOpenAIProvider(Config{}), KindOpenAI},
		{NewGoogleProvider(Config{}), KindGoogle},
		{NewMetaProvider(Config{}), KindMeta},
	}

	for _, tt := range tests {
		if tt.provider.Kind() != tt.expected {
			t.Errorf("Expected kind %s, got %s", tt.expected, tt.provider.Kind())
		}
	}
}
