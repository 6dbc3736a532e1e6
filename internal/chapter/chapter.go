// Package chapter partitions a document into chapters at heading markers.
package chapter

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// DefaultHeadingPattern matches traditional chapter headings of the form
// 第…回 ("Chapter N"), where N is written in CJK ideographs or digits.
const DefaultHeadingPattern = `第[\x{4e00}-\x{9fa5}\p{Nd}]+回`

var defaultHeading = regexp.MustCompile(DefaultHeadingPattern)

// Chapter is one contiguous unit of a document.
type Chapter struct {
	// Ordinal is the 1-based position among headed chapters.
	// Front matter preceding the first heading has ordinal 0.
	Ordinal int
	// Heading is the matched heading marker, empty for front matter and
	// for documents without headings.
	Heading string
	// Text is the heading followed by the chapter body, trimmed.
	Text string
}

// IsFrontMatter reports whether c holds text found before the first heading.
func (c Chapter) IsFrontMatter() bool {
	return c.Ordinal == 0
}

// Splitter detects headings and splits documents into chapters.
type Splitter struct {
	heading *regexp.Regexp
	log     *slog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithHeading replaces the heading pattern.
func WithHeading(re *regexp.Regexp) Option {
	return func(s *Splitter) {
		if re != nil {
			s.heading = re
		}
	}
}

// WithLogger sets the logger used for split diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Splitter) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSplitter creates a Splitter using DefaultHeadingPattern unless
// overridden.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		heading: defaultHeading,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompileHeading compiles a user-supplied heading pattern.
// An empty pattern yields the default.
func CompileHeading(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return defaultHeading, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("heading pattern %q: %v: %w", pattern, err, ErrInvalidPattern)
	}
	return re, nil
}

// Split partitions document into chapters in document order.
//
// A chapter's text runs from its heading up to, not including, the next
// heading, and is trimmed; chapters left empty are dropped. Non-blank text
// before the first heading becomes a front-matter chapter with ordinal 0.
// A document without any heading yields a single chapter holding the whole
// trimmed document. A blank document yields no chapters.
func (s *Splitter) Split(document string) []Chapter {
	if strings.TrimSpace(document) == "" {
		return nil
	}

	locs := s.heading.FindAllStringIndex(document, -1)
	if len(locs) == 0 {
		s.log.Warn("no chapter headings found, treating document as one chapter",
			"pattern", s.heading.String())
		return []Chapter{{Ordinal: 1, Text: strings.TrimSpace(document)}}
	}

	var chapters []Chapter

	if front := strings.TrimSpace(document[:locs[0][0]]); front != "" {
		s.log.Debug("front matter before first heading", "chars", len([]rune(front)))
		chapters = append(chapters, Chapter{Ordinal: 0, Text: front})
	}

	ordinal := 0
	for i, loc := range locs {
		end := len(document)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(document[loc[0]:end])
		if text == "" {
			continue
		}
		ordinal++
		chapters = append(chapters, Chapter{
			Ordinal: ordinal,
			Heading: document[loc[0]:loc[1]],
			Text:    text,
		})
	}

	s.log.Debug("document split", "chapters", ordinal)
	return chapters
}
