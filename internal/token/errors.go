package token

import "errors"

var (
	// ErrTokenizerUnavailable indicates the exact tokenizer could not be loaded.
	ErrTokenizerUnavailable = errors.New("tokenizer unavailable")

	// ErrUnknownStrategy indicates an unsupported estimator strategy name.
	ErrUnknownStrategy = errors.New("unknown tokenizer strategy")
)
