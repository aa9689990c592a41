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
	defaultOpenAIBaseURL = "https://api.openai.com/v1/embeddings"
	defaultOpenAIModel   = "text-embedding-3-small"
)

// OpenAIProvider implements the Provider interface for OpenAI's
// embeddings API. The whole batch goes out as a single HTTP call.
type OpenAIProvider struct {
	Config
	httpClient *http.Client
}

// openaiRequest represents a request to OpenAI's embeddings API.
type openaiRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// openaiResponse represents a response from OpenAI's embeddings API.
// Data entries are returned in request order.
type openaiResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// NewOpenAIProvider creates a new instance of the OpenAI provider.
func NewOpenAIProvider(config Config) *OpenAIProvider {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenAIBaseURL
	}
	return &OpenAIProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Kind returns the provider kind.
func (p *OpenAIProvider) Kind() ProviderKind {
	return KindOpenAI
}

// EmbedText embeds a single text. Equivalent to a singleton batch.
func (p *OpenAIProvider) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds a batch of texts with one HTTP call, returning one
// vector per input in input order.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	reqJSON, err := json.Marshal(openaiRequest{
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
		return nil, fmt.Errorf("error sending request to OpenAI API: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Kind: KindOpenAI, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed openaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{Kind: KindOpenAI, StatusCode: resp.StatusCode, Body: fmt.Sprintf("malformed response: %v", err)}
	}

	if len(parsed.Data) != len(texts) {
		return nil, &ProviderError{
			Kind:       KindOpenAI,
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
