package pdftext

import (
	"bytes"
	"context"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
)

// Native extracts text in-process with the pure Go ledongthuc/pdf reader.
type Native struct{}

// NewNative creates a Native extractor.
func NewNative() *Native {
	return &Native{}
}

// Extract reads the PDF at pdfPath and returns one text entry per page.
func (n *Native) Extract(ctx context.Context, pdfPath string) (model.DocumentText, error) {
	if err := statReadable(pdfPath); err != nil {
		return model.DocumentText{}, err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return model.DocumentText{}, unreadable(pdfPath, err)
	}
	return n.ExtractBytes(ctx, pdfPath, data)
}

// ExtractBytes extracts text from an in-memory PDF. name only labels errors
// and log lines.
func (n *Native) ExtractBytes(ctx context.Context, name string, data []byte) (model.DocumentText, error) {
	reader, err := openReader(data)
	if err != nil {
		return model.DocumentText{}, unreadable(name, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return model.DocumentText{}, err
		}
		text, err := pageText(reader.Page(i))
		if err != nil {
			// Extraction gap: the page counts as empty.
			zap.L().Debug("pdftext: page has no extractable text",
				zap.String("document", name),
				zap.Int("page", i),
				zap.Error(err),
			)
			text = ""
		}
		pages = append(pages, Normalize(text))
	}

	return model.DocumentText{Pages: pages}, nil
}

// openReader parses the PDF structure. The reader panics on some malformed
// inputs, so panics are converted into errors.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, eris.Errorf("pdftext: parse pdf: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", eris.Errorf("pdftext: read page: %v", rec)
		}
	}()
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
