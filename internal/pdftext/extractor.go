// Package pdftext supplies raw invoice text to the extraction core. The core
// never touches file formats itself; it consumes whatever an Extractor hands
// it.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoExtractableText indicates the document produced no usable text, e.g. a
// scanned image-only PDF. Callers decide whether to fall back to an empty
// parse or surface the failure.
var ErrNoExtractableText = errors.New("no extractable text in document")

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	// ExtractText returns the document's text content
	ExtractText(data []byte, contentType string) (string, error)
	// Close releases extractor resources
	Close() error
}

// FitzExtractor implements Extractor using MuPDF via go-fitz. Non-PDF input
// is treated as already-plain text.
type FitzExtractor struct{}

// NewFitzExtractor creates a FitzExtractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractText extracts text from every page of a PDF, newline-joined. Inputs
// with a non-PDF content type pass through as UTF-8 text.
func (e *FitzExtractor) ExtractText(data []byte, contentType string) (string, error) {
	if !isPDF(contentType) {
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return "", ErrNoExtractableText
		}
		return text, nil
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", n, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrNoExtractableText
	}
	return sb.String(), nil
}

// Close releases extractor resources (no-op; documents are closed per call).
func (e *FitzExtractor) Close() error {
	return nil
}

func isPDF(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == "application/pdf" || strings.Contains(ct, "pdf")
}
