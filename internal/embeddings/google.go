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
	defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGoogleModel   = "text-embedding-004"

	// googleTaskType marks embeddings as document-retrieval vectors.
	googleTaskType = "RETRIEVAL_DOCUMENT"
)

// GoogleProvider implements the Provider interface for Google's
// Gemini embeddings API. The remote API has no batch endpoint, so
// EmbedBatch issues one call per input text sequentially, accumulating
// results in input order and failing the whole batch on the first
// error. Partial embeddings are never returned.
type GoogleProvider struct {
	Config
	httpClient *http.Client
}

// googleRequest represents a request to the Gemini embedContent API.
type googleRequest struct {
	Content  googleContent `json:"content"`
	TaskType string        `json:"taskType"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

// googleResponse represents a response from the Gemini embedContent API.
type googleResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// NewGoogleProvider creates a new instance of the Google provider.
func NewGoogleProvider(config Config) *GoogleProvider {
	if config.Model == "" {
		config.Model = defaultGoogleModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultGoogleBaseURL
	}
	return &GoogleProvider{
		Config: config,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Kind returns the provider kind.
func (p *GoogleProvider) Kind() ProviderKind {
	return KindGoogle
}

// EmbedText embeds a single text. Equivalent to a singleton batch.
func (p *GoogleProvider) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds each text with its own sequential HTTP call.
// Any single failing call fails the whole batch immediately.
func (p *GoogleProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vector, err := p.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// embedOne performs a single embedContent call. The API key travels as
// a query parameter rather than an authorization header.
func (p *GoogleProvider) embedOne(ctx context.Context, text string) ([]float64, error) {
	reqJSON, err := json.Marshal(googleRequest{
		Content:  googleContent{Parts: []googlePart{{Text: text}}},
		TaskType: googleTaskType,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	apiURL := fmt.Sprintf("%s/%s:embedContent?key=%s", p.BaseURL, p.Model, p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(string(reqJSON)))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %s", p.redactKey(err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// url.Error messages include the full request URL, query and
		// key included; the key must never reach logs.
		return nil, fmt.Errorf("error sending request to Google API: %s", p.redactKey(err.Error()))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Kind: KindGoogle, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed googleResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{Kind: KindGoogle, StatusCode: resp.StatusCode, Body: fmt.Sprintf("malformed response: %v", err)}
	}

	if len(parsed.Embedding.Values) == 0 {
		return nil, &ProviderError{Kind: KindGoogle, StatusCode: resp.StatusCode, Body: "empty embedding in response"}
	}

	return parsed.Embedding.Values, nil
}

// redactKey masks the API key wherever it appears in error text.
func (p *GoogleProvider) redactKey(msg string) string {
	if p.APIKey == "" {
		return msg
	}
	return strings.ReplaceAll(msg, p.APIKey, "REDACTED")
}
