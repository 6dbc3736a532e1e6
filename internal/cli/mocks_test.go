package cli

import (
	"context"
	"strings"
	"sync"

	"github.com/alnah/go-classic-translate/internal/config"
	"github.com/alnah/go-classic-translate/internal/translate"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock TranslatorFactory + Translator
// ---------------------------------------------------------------------------

type mockTranslator struct {
	// TranslateFunc overrides the default behavior, which upper-cases the
	// segment so tests can tell source from translation.
	TranslateFunc func(ctx context.Context, req translate.Request) (string, error)

	mu       sync.Mutex
	requests []translate.Request
}

func (m *mockTranslator) Translate(ctx context.Context, req translate.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, req)
	}
	return strings.ToUpper(req.Text), nil
}

func (m *mockTranslator) Name() string {
	return "mock/test-model"
}

func (m *mockTranslator) Requests() []translate.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]translate.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

type mockTranslatorFactory struct {
	NewTranslatorFunc func(ctx context.Context, provider Provider, apiKey string, opts ...translate.Option) (translate.Translator, error)
	mockTranslator    *mockTranslator

	mu       sync.Mutex
	calls    int
	provider Provider
	apiKey   string
	opts     int
}

func (m *mockTranslatorFactory) NewTranslator(ctx context.Context, provider Provider, apiKey string, opts ...translate.Option) (translate.Translator, error) {
	m.mu.Lock()
	m.calls++
	m.provider = provider
	m.apiKey = apiKey
	m.opts = len(opts)
	if m.mockTranslator == nil {
		m.mockTranslator = &mockTranslator{}
	}
	tr := m.mockTranslator
	m.mu.Unlock()

	if m.NewTranslatorFunc != nil {
		return m.NewTranslatorFunc(ctx, provider, apiKey, opts...)
	}
	return tr, nil
}

func (m *mockTranslatorFactory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockTranslatorFactory) LastProvider() Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provider
}

func (m *mockTranslatorFactory) LastAPIKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiKey
}

// Translator returns the translator handed out by the factory.
func (m *mockTranslatorFactory) Translator() *mockTranslator {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mockTranslator == nil {
		m.mockTranslator = &mockTranslator{}
	}
	return m.mockTranslator
}

// Compile-time interface verification.
var (
	_ ConfigLoader         = (*mockConfigLoader)(nil)
	_ TranslatorFactory    = (*mockTranslatorFactory)(nil)
	_ translate.Translator = (*mockTranslator)(nil)
)
