package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-classic-translate/internal/translate"
)

// Provider name constants.
const (
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// API key environment variables, one per provider.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvDeepSeekAPIKey  = "DEEPSEEK_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
)

// Provider represents a validated translation provider.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed constants.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed provider constants for use in code.
var (
	OpenAIProvider    = Provider{name: ProviderOpenAI}
	DeepSeekProvider  = Provider{name: ProviderDeepSeek}
	AnthropicProvider = Provider{name: ProviderAnthropic}
	GeminiProvider    = Provider{name: ProviderGemini}
)

// providerInfo describes what each provider needs at startup.
type providerInfo struct {
	keyEnv       string
	defaultModel string
}

var providers = map[string]providerInfo{
	ProviderOpenAI:    {EnvOpenAIAPIKey, translate.DefaultOpenAIModel},
	ProviderDeepSeek:  {EnvDeepSeekAPIKey, translate.DefaultDeepSeekModel},
	ProviderAnthropic: {EnvAnthropicAPIKey, translate.DefaultAnthropicModel},
	ProviderGemini:    {EnvGeminiAPIKey, translate.DefaultGeminiModel},
}

// providerNames lists providers in help order.
var providerNames = []string{ProviderOpenAI, ProviderDeepSeek, ProviderAnthropic, ProviderGemini}

// ParseProvider validates and parses a provider name string.
// Matching is case-insensitive. Empty string is an error.
func ParseProvider(s string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if _, ok := providers[name]; !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (use %s): %w", s, strings.Join(providerNames, ", "), ErrInvalidProvider)
	}
	return Provider{name: name}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name string.
// Returns empty string for zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if this is the zero value (no provider set).
func (p Provider) IsZero() bool {
	return p.name == ""
}

// OrDefault returns the provider, or OpenAIProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return OpenAIProvider
	}
	return p
}

// APIKeyEnv returns the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	return providers[p.name].keyEnv
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	return providers[p.name].defaultModel
}

// apiKey resolves the provider's key from the environment.
func (p Provider) apiKey(getenv func(string) string) (string, error) {
	env := p.APIKeyEnv()
	key := strings.TrimSpace(getenv(env))
	if key == "" {
		return "", fmt.Errorf("%s not set for provider %s (set it with: export %s=...): %w", env, p, env, ErrAPIKeyMissing)
	}
	return key, nil
}
