package chapter

import "errors"

// ErrInvalidPattern indicates a heading pattern that does not compile.
var ErrInvalidPattern = errors.New("invalid heading pattern")
