package document

import "errors"

// ErrUnsupportedFormat indicates an input file extension with no parser.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrInvalidEncoding indicates plain text input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("document is not valid UTF-8")

// ErrEmpty indicates a document with no extractable text.
var ErrEmpty = errors.New("document contains no text")
