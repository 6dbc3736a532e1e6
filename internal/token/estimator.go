// Package token estimates the cost of a text in model tokens.
//
// Two strategies exist: an exact BPE count through tiktoken, and a
// character-count approximation used when no tokenizer can be loaded.
// The strategy is selected once at startup with Select and injected into
// the components that need it.
package token

import (
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"
)

// Strategy names accepted by Select.
const (
	StrategyAuto     = "auto"
	StrategyTiktoken = "tiktoken"
	StrategyChars    = "chars"
)

// DefaultEncoding is the BPE encoding used by GPT-4.
const DefaultEncoding = "cl100k_base"

// defaultCacheSize bounds the memoization cache wrapped around exact estimators.
const defaultCacheSize = 4096

// Estimator maps a text to a non-negative cost.
// Implementations must be deterministic and must never return a smaller cost
// for a concatenation than for either of its non-empty parts.
type Estimator interface {
	Count(text string) int
	// Name identifies the strategy in logs and plan output.
	Name() string
}

// Compile-time interface compliance checks.
var (
	_ Estimator = CharEstimator{}
	_ Estimator = (*TiktokenEstimator)(nil)
	_ Estimator = (*CachedEstimator)(nil)
)

// ---------------------------------------------------------------------------
// CharEstimator
// ---------------------------------------------------------------------------

// CharEstimator approximates one token per Unicode code point.
// For CJK text this overestimates slightly, which keeps segments safe.
type CharEstimator struct{}

// Count returns the number of code points in text.
func (CharEstimator) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns "chars".
func (CharEstimator) Name() string {
	return StrategyChars
}

// ---------------------------------------------------------------------------
// TiktokenEstimator
// ---------------------------------------------------------------------------

// TiktokenEstimator counts tokens exactly with a tiktoken BPE encoding.
type TiktokenEstimator struct {
	codec    tokenizer.Codec
	encoding string
}

// NewTiktokenEstimator loads the named encoding (e.g. "cl100k_base", "o200k_base").
// Returns ErrTokenizerUnavailable if the encoding cannot be loaded.
func NewTiktokenEstimator(encoding string) (*TiktokenEstimator, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	codec, err := tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", encoding, err, ErrTokenizerUnavailable)
	}
	return &TiktokenEstimator{codec: codec, encoding: encoding}, nil
}

// Count returns the number of BPE tokens in text.
// An encoding failure falls back to the code point count for that text.
func (e *TiktokenEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := e.codec.Encode(text)
	if err != nil {
		return utf8.RuneCountInString(text)
	}
	return len(ids)
}

// Name returns "tiktoken/<encoding>".
func (e *TiktokenEstimator) Name() string {
	return StrategyTiktoken + "/" + e.encoding
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Select returns the estimator for strategy.
//
//   - "auto" (or empty) tries tiktoken and degrades to character counting,
//     logging the degraded mode at WARN.
//   - "tiktoken" requires the tokenizer and fails otherwise.
//   - "chars" always counts characters.
//
// Exact estimators are wrapped in a CachedEstimator.
func Select(strategy, encoding string, log *slog.Logger) (Estimator, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch strategy {
	case StrategyChars:
		log.Debug("token estimator selected", "strategy", StrategyChars)
		return CharEstimator{}, nil

	case StrategyTiktoken:
		exact, err := NewTiktokenEstimator(encoding)
		if err != nil {
			return nil, err
		}
		log.Debug("token estimator selected", "strategy", exact.Name())
		return NewCachedEstimator(exact, defaultCacheSize)

	case StrategyAuto, "":
		exact, err := NewTiktokenEstimator(encoding)
		if err != nil {
			log.Warn("tokenizer unavailable, approximating tokens by character count", "error", err)
			return CharEstimator{}, nil
		}
		log.Debug("token estimator selected", "strategy", exact.Name())
		return NewCachedEstimator(exact, defaultCacheSize)

	default:
		return nil, fmt.Errorf("unknown tokenizer strategy %q (use auto, tiktoken or chars): %w", strategy, ErrUnknownStrategy)
	}
}
