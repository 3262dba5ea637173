// Package pdftext turns PDF documents into per-page plain text. It does not
// OCR: image-only pages come back as empty strings.
package pdftext

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/prism/internal/config"
	"github.com/sells-group/prism/internal/model"
)

// ErrDocumentUnreadable is returned when the input does not resolve to a
// readable PDF. It is the only extraction error that aborts an analysis.
var ErrDocumentUnreadable = eris.New("pdftext: document unreadable")

// Extractor extracts text content from PDF files.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (model.DocumentText, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.ExtractConfig) (Extractor, error) {
	switch cfg.Provider {
	case "native", "":
		return NewNative(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("pdftext: unknown provider %q", cfg.Provider)
	}
}

// unreadable wraps ErrDocumentUnreadable with the path and cause.
func unreadable(pdfPath string, cause any) error {
	return eris.Wrapf(ErrDocumentUnreadable, "%s: %v", pdfPath, cause)
}

// statReadable fails with ErrDocumentUnreadable unless pdfPath is an
// existing regular file.
func statReadable(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return unreadable(pdfPath, err)
	}
	if info.IsDir() {
		return unreadable(pdfPath, "is a directory")
	}
	return nil
}

// minusReplacer maps typographic minus signs that NFKC leaves alone.
var minusReplacer = strings.NewReplacer(
	"−", "-", // minus sign
	"‒", "-", // figure dash
	"﹣", "-", // small hyphen-minus
)

// Normalize applies NFKC (superscript digits, ligatures, non-breaking
// spaces) and folds minus-sign variants to ASCII so the pattern matchers
// see "χ2(1) = -3.2" instead of "χ²(1) = −3.2".
func Normalize(s string) string {
	return minusReplacer.Replace(norm.NFKC.String(s))
}
