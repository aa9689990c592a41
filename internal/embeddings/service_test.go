package embeddings

import (
	"errors"
	"testing"
)

// fakeSettings implements Settings and counts credential lookups.
type fakeSettings struct {
	kind        ProviderKind
	kindErr     error
	keys        map[string]string
	keyErr      error
	keyLookups  int
	kindLookups int
}

func (f *fakeSettings) EmbeddingProvider() (ProviderKind, error) {
	f.kindLookups++
	return f.kind, f.kindErr
}

func (f *fakeSettings) APIKey(namespace string) (string, error) {
	f.keyLookups++
	if f.keyErr != nil {
		return "", f.keyErr
	}
	return f.keys[namespace], nil
}

// slotConsumer implements ProviderConsumer for refresh tests.
type slotConsumer struct {
	provider Provider
	calls    int
}

func (c *slotConsumer) SetEmbeddingProvider(provider Provider) {
	c.provider = provider
	c.calls++
}

func TestResolveProviderCachesInstance(t *testing.T) {
	settings := &fakeSettings{
		kind: KindOpenAI,
		keys: map[string]string{NamespaceOpenAI: "sk-test"},
	}
	service := NewService(settings, nil)

	first := service.ResolveProvider()
	if first == nil {
		t.Fatal("Expected a provider, got nil")
	}
	if settings.keyLookups != 1 {
		t.Fatalf("Expected 1 credential lookup, got %d", settings.keyLookups)
	}

	second := service.ResolveProvider()
	if second != first {
		t.Error("Expected identical cached instance on second resolve")
	}
	if settings.keyLookups != 1 {
		t.Errorf("Cached resolve performed a credential lookup: %d total", settings.keyLookups)
	}
}

func TestInvalidateCacheForcesFreshLookup(t *testing.T) {
	settings := &fakeSettings{
		kind: KindOpenAI,
		keys: map[string]string{NamespaceOpenAI: "sk-test"},
	}
	service := NewService(settings, nil)

	first := service.ResolveProvider()
	service.InvalidateCache()

	second := service.ResolveProvider()
	if second == nil {
		t.Fatal("Expected a provider after invalidation")
	}
	if second == first {
		t.Error("Expected a rebuilt instance after invalidation")
	}
	if settings.keyLookups != 2 {
		t.Errorf("Expected fresh credential lookup after invalidation, got %d lookups", settings.keyLookups)
	}

	// Invalidation is idempotent
	service.InvalidateCache()
	service.InvalidateCache()
}

func TestKindChangeRebuildsCache(t *testing.T) {
	settings := &fakeSettings{
		kind: KindOpenAI,
		keys: map[string]string{
			NamespaceOpenAI: "sk-test",
			NamespaceGemini: "gemini-test",
		},
	}
	service := NewService(settings, nil)

	first := service.ResolveProvider()
	if first.Kind() != KindOpenAI {
		t.Fatalf("Expected openai provider, got %s", first.Kind())
	}

	settings.kind = KindGoogle
	second := service.ResolveProvider()
	if second == nil {
		t.Fatal("Expected a provider after kind change")
	}
	if second.Kind() != KindGoogle {
		t.Errorf("Expected rebuilt provider of kind google, got %s", second.Kind())
	}
	if second == first {
		t.Error("Expected a new instance after kind change")
	}
}

func TestMissingCredentialYieldsNil(t *testing.T) {
	settings := &fakeSettings{
		kind: KindMeta,
		keys: map[string]string{},
	}
	service := NewService(settings, nil)

	if provider := service.ResolveProvider(); provider != nil {
		t.Errorf("Expected nil provider for missing credential, got %v", provider)
	}
}

func TestSettingsFailureYieldsNil(t *testing.T) {
	service := NewService(&fakeSettings{
		kind:   KindOpenAI,
		keyErr: errors.New("settings storage unavailable"),
	}, nil)

	if provider := service.ResolveProvider(); provider != nil {
		t.Errorf("Expected nil provider on settings failure, got %v", provider)
	}

	service = NewService(&fakeSettings{
		kindErr: errors.New("settings storage unavailable"),
	}, nil)

	if provider := service.ResolveProvider(); provider != nil {
		t.Errorf("Expected nil provider on kind lookup failure, got %v", provider)
	}
}

func TestRefreshDownstreamPushesProvider(t *testing.T) {
	settings := &fakeSettings{
		kind: KindOpenAI,
		keys: map[string]string{NamespaceOpenAI: "sk-test"},
	}
	service := NewService(settings, nil)
	consumer := &slotConsumer{}

	service.RefreshDownstream(consumer)
	if consumer.calls != 1 {
		t.Fatalf("Expected 1 push, got %d", consumer.calls)
	}
	if consumer.provider == nil {
		t.Fatal("Expected a provider pushed into the slot")
	}
	if consumer.provider.Kind() != KindOpenAI {
		t.Errorf("Expected openai provider in slot, got %s", consumer.provider.Kind())
	}
}

func TestRefreshDownstreamPushesNilWhenDisabled(t *testing.T) {
	service := NewService(&fakeSettings{kind: KindOpenAI, keys: map[string]string{}}, nil)
	consumer := &slotConsumer{provider: NewTestProvider(KindMeta, []float64{1}, nil)}

	service.RefreshDownstream(consumer)
	if consumer.calls != 1 {
		t.Fatalf("Expected 1 push, got %d", consumer.calls)
	}
	if consumer.provider != nil {
		t.Error("Expected nil pushed into the slot when embeddings are disabled")
	}
}
