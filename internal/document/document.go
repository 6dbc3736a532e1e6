// Package document loads input files and flattens them to plain text.
//
// Every parser emits paragraphs separated by a blank line, which is the
// boundary the segmenter splits on.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const paragraphSeparator = "\n\n"

// Parser converts raw file contents into plain text.
type Parser interface {
	Parse(data []byte) (string, error)
}

// parsers maps lowercase file extensions to their parser.
var parsers = map[string]Parser{
	".txt":      TextParser{},
	".text":     TextParser{},
	".md":       MarkdownParser{},
	".markdown": MarkdownParser{},
	".html":     HTMLParser{},
	".htm":      HTMLParser{},
	".pdf":      PDFParser{},
	".docx":     DOCXParser{},
}

// SupportedExtensions returns the recognized file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// ForFile returns the parser for path based on its extension.
// Files without an extension are read as plain text.
func ForFile(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return TextParser{}, nil
	}
	p, ok := parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%s (supported: %s): %w",
			ext, strings.Join(SupportedExtensions(), ", "), ErrUnsupportedFormat)
	}
	return p, nil
}

// Load reads the file at path and returns its plain text.
// Errors from reading the file are wrapped, so os.ErrNotExist can be
// detected with errors.Is.
func Load(path string) (string, error) {
	p, err := ForFile(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, err := p.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmpty)
	}
	return text, nil
}

// joinParagraphs trims each paragraph, drops empty ones and joins the rest
// with a blank line.
func joinParagraphs(paragraphs []string) string {
	kept := paragraphs[:0:0]
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, paragraphSeparator)
}
