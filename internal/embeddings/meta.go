package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultMetaBaseURL = "https://api.llama.com/v1/embeddings"
	defaultMetaModel   = "llama-text-embed-v2"
)

// MetaProvider implements the Provider interface for Meta's Llama
// embeddings API. The wire format matches OpenAI's: one call for the
// whole batch, bearer-token auth, `data` entries in request order.
type MetaProvider struct {
	Config
	httpClient *http.Client
}

// The OpenAI-compatible request/response shapes are reused verbatim.
type metaRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type metaResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// NewMetaProvider creates a new instance of the Meta provider.
func NewMetaProvider(config Config) *MetaProvider {
	if config.Model == "" {
		config.Model = defaultMetaModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultMetaBaseURL
	}
	return &MetaProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Kind returns the provider kind.
func (p *MetaProvider) Kind() ProviderKind {
	return KindMeta
}

// EmbedText embeds a single text. Equivalent to a singleton batch.
func (p *MetaProvider) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds a batch of texts with one HTTP call, returning one
// vector per input in input order.
func (p *MetaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	reqJSON, err := json.Marshal(metaRequest{
		Model: p.Model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, strings.NewReader(string(reqJSON)))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.APIKey))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request to Meta API: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Kind: KindMeta, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed metaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{Kind: KindMeta, StatusCode: resp.StatusCode, Body: fmt.Sprintf("malformed response: %v", err)}
	}

	if len(parsed.Data) != len(texts) {
		return nil, &ProviderError{
			Kind:       KindMeta,
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(parsed.Data)),
		}
	}

	vectors := make([][]float64, len(parsed.Data))
	for i, d := range parsed.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
