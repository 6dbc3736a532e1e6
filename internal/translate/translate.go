// Package translate sends text segments to remote language models and
// reassembles the translations of whole chapters.
package translate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-classic-translate/internal/apierr"
)

// Request is one translation call.
type Request struct {
	// Instruction is sent as the system message.
	Instruction string
	// Text is the segment to translate.
	Text string
	// Temperature and TopP are the sampling parameters.
	Temperature float64
	TopP        float64
}

// Translator translates a single segment.
type Translator interface {
	// Translate returns the translation of req.Text.
	// Errors are classified into apierr sentinels.
	Translate(ctx context.Context, req Request) (string, error)
	// Name identifies the provider and model, e.g. "openai/gpt-4".
	Name() string
}

// Default sampling parameters.
const (
	DefaultTemperature = 0.0
	DefaultTopP        = 1.0
)

// settings holds options shared by every provider.
type settings struct {
	model           string
	maxOutputTokens int
	retry           apierr.RetryConfig
	log             *slog.Logger
}

// Option configures a provider translator.
type Option func(*settings)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxOutputTokens caps the length of each translation.
// Zero keeps the provider default.
func WithMaxOutputTokens(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxOutputTokens = n
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.retry.MaxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(s *settings) {
		if base > 0 {
			s.retry.BaseDelay = base
		}
		if max > 0 {
			s.retry.MaxDelay = max
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

func newSettings(defaultModel string, opts []Option) settings {
	s := settings{
		model: defaultModel,
		retry: apierr.DefaultRetryConfig(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// withRetry runs call with the configured backoff, retrying transient errors.
func withRetry(ctx context.Context, s settings, name string, call func() (string, error)) (string, error) {
	cfg := s.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.log.Warn("retrying translation request",
			"provider", name, "attempt", attempt, "delay", delay, "error", err)
	}
	out, err := apierr.RetryWithBackoff(ctx, cfg, call, apierr.IsRetryable)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
