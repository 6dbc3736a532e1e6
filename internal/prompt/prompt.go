// Package prompt holds the translation instruction styles sent as the
// system message with every segment.
package prompt

import (
	"fmt"
	"strings"

	"github.com/alnah/go-classic-translate/internal/lang"
)

// Style name constants.
// Use these instead of string literals for compile-time safety.
const (
	Faithful  = "faithful"
	Literary  = "literary"
	Annotated = "annotated"
)

// ---------------------------------------------------------------------------
// Style type - represents a validated instruction style
// ---------------------------------------------------------------------------

// Style represents a validated instruction style.
// The zero value selects Faithful.
type Style struct {
	name string
}

// Pre-parsed styles for use in code.
var (
	FaithfulStyle  = Style{name: Faithful}
	LiteraryStyle  = Style{name: Literary}
	AnnotatedStyle = Style{name: Annotated}
)

// ParseStyle validates a style name. An empty string selects Faithful.
// Returns ErrUnknown if the name is not recognized.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return FaithfulStyle, nil
	}
	if _, ok := styles[s]; !ok {
		return Style{}, fmt.Errorf("unknown style %q (available: %s): %w",
			s, strings.Join(Names(), ", "), ErrUnknown)
	}
	return Style{name: s}, nil
}

// MustParseStyle parses a style name, panicking if invalid.
// Use only for constants and tests.
func MustParseStyle(s string) Style {
	st, err := ParseStyle(s)
	if err != nil {
		panic(err)
	}
	return st
}

// String returns the style name.
func (s Style) String() string {
	if s.name == "" {
		return Faithful
	}
	return s.name
}

// Instruction renders the system instruction for translating from source
// to target. Language codes are shown by display name.
func (s Style) Instruction(source, target string) string {
	return fmt.Sprintf(styles[s.String()], lang.DisplayName(source), lang.DisplayName(target))
}

// styleOrder defines the canonical order for Names().
var styleOrder = []string{
	Faithful,
	Literary,
	Annotated,
}

// styles maps style names to instruction formats. Each takes the source
// then the target language name.
var styles = map[string]string{
	Faithful:  faithfulInstruction,
	Literary:  literaryInstruction,
	Annotated: annotatedInstruction,
}

// Names returns the available style names in canonical order.
func Names() []string {
	result := make([]string, len(styleOrder))
	copy(result, styleOrder)
	return result
}

const faithfulInstruction = `You are a translator who provides accurate, complete translations from %s to %s. Do not omit any details.`

const literaryInstruction = `You are a literary translator working from %s into %s.

Rules:
- Translate every sentence; do not summarize or skip passages
- Render the text as fluent, natural prose in the target language
- Keep the tone and register of the original narration and dialogue
- Keep proper names consistent; romanize them the same way each time
- Preserve paragraph breaks
- Output only the translation, no commentary`

const annotatedInstruction = `You are a scholarly translator working from %s into %s.

Rules:
- Translate every sentence faithfully and completely; do not summarize
- Preserve paragraph breaks
- After a term that needs context (official titles, allusions, idioms, places), add a short note in square brackets
- Keep notes brief and factual; do not interpret the plot
- Output only the annotated translation`
