package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFParser extracts the plain text of each page. Pages become separate
// paragraphs; pages without text are skipped.
type PDFParser struct{}

func (PDFParser) Parse(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return joinParagraphs(pages), nil
}
