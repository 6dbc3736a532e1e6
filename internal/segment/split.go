package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isSentenceEnd reports whether r closes a sentence: the CJK full stop or
// Latin '.', '!' and '?'.
func isSentenceEnd(r rune) bool {
	switch r {
	case '。', '.', '!', '?':
		return true
	}
	return false
}

// SplitParagraphs splits text on blank lines, trimming each paragraph and
// discarding empty ones.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, paragraphSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// SplitSentences splits a paragraph after every sentence terminator.
// Whitespace following a terminator is dropped, sentences are trimmed and
// empty results discarded. Text after the last terminator forms a final
// sentence.
func SplitSentences(paragraph string) []string {
	var sentences []string
	var b strings.Builder

	add := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	skipSpace := false
	for _, r := range paragraph {
		if skipSpace && unicode.IsSpace(r) {
			continue
		}
		skipSpace = false
		b.WriteRune(r)
		if isSentenceEnd(r) {
			add()
			skipSpace = true
		}
	}
	add()
	return sentences
}

// overlapPrefix returns the trailing whole words of chunk whose combined
// character count (spaces excluded) stays within budget. Walking stops at
// the first word that does not fit.
func overlapPrefix(chunk string, budget int) string {
	words := strings.Fields(chunk)
	used := 0
	start := len(words)
	for i := len(words) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(words[i])
		if used+n > budget {
			break
		}
		used += n
		start = i
	}
	return strings.Join(words[start:], " ")
}
