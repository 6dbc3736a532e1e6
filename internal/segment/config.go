package segment

import "fmt"

// Default budgets, in estimator units.
const (
	DefaultMaxTokens     = 6000
	DefaultSubChunkSize  = 3000
	DefaultOverlapTokens = 100
)

// Config holds the token budgets used by a Segmenter.
// It is passed by value and never mutated after construction.
type Config struct {
	// MaxTokens caps every emitted segment.
	MaxTokens int
	// SubChunkSize is the target size of sub-chunks cut from a paragraph
	// that alone exceeds MaxTokens.
	SubChunkSize int
	// OverlapTokens is the character budget of the overlap prefix carried
	// from one sub-chunk into the next. Zero disables overlap.
	OverlapTokens int
}

// DefaultConfig returns the default budgets (6000 / 3000 / 100).
func DefaultConfig() Config {
	return Config{
		MaxTokens:     DefaultMaxTokens,
		SubChunkSize:  DefaultSubChunkSize,
		OverlapTokens: DefaultOverlapTokens,
	}
}

// Validate checks the budgets are usable together.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d: %w", c.MaxTokens, ErrInvalidConfig)
	}
	if c.SubChunkSize <= 0 {
		return fmt.Errorf("sub-chunk size must be positive, got %d: %w", c.SubChunkSize, ErrInvalidConfig)
	}
	if c.SubChunkSize > c.MaxTokens {
		return fmt.Errorf("sub-chunk size %d exceeds max tokens %d: %w", c.SubChunkSize, c.MaxTokens, ErrInvalidConfig)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d: %w", c.OverlapTokens, ErrInvalidConfig)
	}
	if c.OverlapTokens >= c.SubChunkSize {
		return fmt.Errorf("overlap %d must be smaller than sub-chunk size %d: %w", c.OverlapTokens, c.SubChunkSize, ErrInvalidConfig)
	}
	return nil
}
