package embeddings

import (
	"fmt"
)

// New creates a provider instance for the given kind and API key.
// Pure construction: no network calls, no caching, and no validation
// of the key beyond what the remote API enforces on first use.
//
// projectID is accepted for forward compatibility with providers that
// scope credentials to a project; no current implementation uses it.
func New(kind ProviderKind, apiKey, projectID string) (Provider, error) {
	_ = projectID

	config := Config{APIKey: apiKey}

	switch kind {
	case KindOpenAI:
		return NewOpenAIProvider(config), nil
	case KindGoogle:
		return NewGoogleProvider(config), nil
	case KindMeta:
		return NewMetaProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", kind)
	}
}

// Namespace returns the credential namespace for a provider kind.
// Google shares the key stored for the Gemini chat feature rather
// than keeping a separate one.
func Namespace(kind ProviderKind) string {
	switch kind {
	case KindOpenAI:
		return NamespaceOpenAI
	case KindGoogle:
		return NamespaceGemini
	case KindMeta:
		return NamespaceMeta
	default:
		return string(kind)
	}
}
