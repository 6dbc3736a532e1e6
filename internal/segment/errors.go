package segment

import "errors"

// ErrInvalidConfig indicates budgets that cannot be used together.
var ErrInvalidConfig = errors.New("invalid segmentation config")
