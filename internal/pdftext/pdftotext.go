package pdftext

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prism/internal/model"
)

// PdfToText extracts text from PDFs using the poppler pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Extract runs pdftotext -layout on the given PDF and splits stdout into
// pages on form feeds.
func (p *PdfToText) Extract(ctx context.Context, pdfPath string) (model.DocumentText, error) {
	if err := statReadable(pdfPath); err != nil {
		return model.DocumentText{}, err
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", "-enc", "UTF-8", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return model.DocumentText{}, unreadable(pdfPath, strings.TrimSpace(stderr.String()))
		}
		return model.DocumentText{}, eris.Wrapf(err, "pdftext: pdftotext failed for %s", pdfPath)
	}

	return model.DocumentText{Pages: splitPages(stdout.String())}, nil
}

// splitPages splits pdftotext output on form feeds. pdftotext ends every
// page with \f, so the empty tail after the last one is dropped.
func splitPages(out string) []string {
	if out == "" {
		return []string{}
	}
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	for i := range pages {
		pages[i] = Normalize(pages[i])
	}
	return pages
}
