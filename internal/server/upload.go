package server

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/pdftext"
	"github.com/sells-group/prism/internal/store"
)

const multipartMemory = 8 << 20

var pdfMagic = []byte("%PDF-")

type uploadResponse struct {
	Success  bool                  `json:"success"`
	ID       string                `json:"id,omitempty"`
	Filename string                `json:"filename"`
	SHA256   string                `json:"sha256"`
	Cached   bool                  `json:"cached"`
	Results  *model.AnalysisResult `json:"results"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := zap.L().With(zap.String("request_id", requestID(r)))

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", s.opts.MaxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close() //nolint:errcheck

	filename := filepath.Base(header.Filename)
	if header.Filename == "" || filename == "." || filename == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	dir, err := os.MkdirTemp(s.opts.TempDir, "prism-upload-*")
	if err != nil {
		log.Error("server: create temp dir", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("server: remove temp upload", zap.String("dir", dir), zap.Error(err))
		}
	}()

	path := filepath.Join(dir, filename)
	sum, err := saveUpload(file, path)
	if err != nil {
		if errors.Is(err, errNotPDF) {
			writeError(w, http.StatusBadRequest, "Only PDF files are supported")
			return
		}
		log.Error("server: save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	if s.opts.Store != nil {
		existing, err := s.opts.Store.FindReportByHash(r.Context(), sum)
		switch {
		case err == nil:
			log.Info("server: returning stored report", zap.String("id", existing.ID), zap.String("sha256", sum))
			writeJSON(w, http.StatusOK, uploadResponse{
				Success:  true,
				ID:       existing.ID,
				Filename: filename,
				SHA256:   sum,
				Cached:   true,
				Results:  existing.Result,
			})
			return
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("server: lookup by hash failed", zap.Error(err))
		}
	}

	result, err := s.analyzer.Run(r.Context(), path)
	if err != nil {
		if errors.Is(err, pdftext.ErrDocumentUnreadable) {
			writeError(w, http.StatusUnprocessableEntity, "The PDF could not be read")
			return
		}
		log.Error("server: analysis failed", zap.String("filename", filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := uploadResponse{Success: true, Filename: filename, SHA256: sum, Results: result}
	if s.opts.Store != nil {
		rep := &model.Report{Filename: filename, SHA256: sum, Result: result}
		if err := s.opts.Store.SaveReport(r.Context(), rep); err != nil {
			log.Error("server: save report", zap.Error(err))
		} else {
			resp.ID = rep.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

var errNotPDF = eris.New("server: upload is not a PDF")

// saveUpload copies src to path and returns its hex SHA-256. The content
// must start with the PDF header.
func saveUpload(src io.Reader, path string) (string, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		return "", errNotPDF
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "server: create upload file")
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, h), br); err != nil {
		_ = dst.Close()
		return "", eris.Wrap(err, "server: write upload file")
	}
	if err := dst.Close(); err != nil {
		return "", eris.Wrap(err, "server: close upload file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
