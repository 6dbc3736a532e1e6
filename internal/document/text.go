package document

import (
	"strings"
	"unicode/utf8"
)

// TextParser reads UTF-8 plain text. Line endings are normalized to '\n'
// and a leading byte order mark is removed; the text is otherwise kept as is.
type TextParser struct{}

func (TextParser) Parse(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	s := strings.TrimPrefix(string(data), "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s, nil
}
