package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alnah/go-classic-translate/internal/config"
	"github.com/alnah/go-classic-translate/internal/interrupt"
	"github.com/alnah/go-classic-translate/internal/translate"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Stdout io.Writer
	Stdin  io.Reader
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader      ConfigLoader
	TranslatorFactory TranslatorFactory
	Interrupts        InterruptFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// TranslatorFactory creates the provider client used for every segment.
type TranslatorFactory interface {
	NewTranslator(ctx context.Context, provider Provider, apiKey string, opts ...translate.Option) (translate.Translator, error)
}

// InterruptFactory installs Ctrl+C handling for a translation run.
// The returned context is canceled on abort.
type InterruptFactory func(ctx context.Context, stderr io.Writer) (*interrupt.Handler, context.Context)

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStdin sets the reader used for interactive confirmations.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithTranslatorFactory sets the translator factory.
func WithTranslatorFactory(f TranslatorFactory) EnvOption {
	return func(e *Env) {
		e.TranslatorFactory = f
	}
}

// WithInterrupts sets the interrupt handler factory.
func WithInterrupts(f InterruptFactory) EnvOption {
	return func(e *Env) {
		e.Interrupts = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:            os.Stderr,
		Stdout:            os.Stdout,
		Stdin:             os.Stdin,
		Getenv:            os.Getenv,
		Now:               time.Now,
		ConfigLoader:      &defaultConfigLoader{},
		TranslatorFactory: &defaultTranslatorFactory{},
		Interrupts:        interrupt.NewHandler,
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultTranslatorFactory builds SDK clients for each provider.
type defaultTranslatorFactory struct{}

func (defaultTranslatorFactory) NewTranslator(ctx context.Context, provider Provider, apiKey string, opts ...translate.Option) (translate.Translator, error) {
	switch provider {
	case OpenAIProvider:
		return translate.NewOpenAITranslator(translate.NewOpenAIClient(apiKey, ""), opts...), nil
	case DeepSeekProvider:
		return translate.NewDeepSeekTranslator(translate.NewOpenAIClient(apiKey, translate.DeepSeekBaseURL), opts...), nil
	case AnthropicProvider:
		return translate.NewAnthropicTranslator(translate.NewAnthropicClient(apiKey), opts...), nil
	case GeminiProvider:
		client, err := translate.NewGeminiClient(ctx, apiKey, "")
		if err != nil {
			return nil, err
		}
		return translate.NewGeminiTranslator(client, opts...), nil
	default:
		return nil, fmt.Errorf("provider %q: %w", provider, ErrInvalidProvider)
	}
}

// Compile-time interface verification.
var (
	_ ConfigLoader      = (*defaultConfigLoader)(nil)
	_ TranslatorFactory = (*defaultTranslatorFactory)(nil)
)
