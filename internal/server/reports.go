package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/report"
	"github.com/sells-group/prism/internal/review"
	"github.com/sells-group/prism/internal/store"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	q := r.URL.Query()
	filter := store.ReportFilter{Filename: q.Get("filename")}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	reports, err := s.opts.Store.ListReports(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list reports")
		return
	}

	summaries := make([]model.ReportSummary, 0, len(reports))
	for i := range reports {
		summaries = append(summaries, reports[i].Summarize())
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": summaries})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	f, err := report.ParseFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType(f))
	if f == report.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="`+rep.ID+`.xlsx"`)
	}
	if err := report.Write(w, f, rep); err != nil {
		zap.L().Error("server: render report", zap.String("id", rep.ID), zap.Error(err))
	}
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if s.opts.Reviewer == nil {
		writeError(w, http.StatusServiceUnavailable, "review generation is not configured")
		return
	}
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	text, err := s.opts.Reviewer.Review(r.Context(), review.Input{Filename: rep.Filename, Result: rep.Result})
	if err != nil {
		zap.L().Error("server: review failed", zap.String("id", rep.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "review generation failed")
		return
	}
	if err := s.opts.Store.SaveReview(r.Context(), rep.ID, text); err != nil {
		zap.L().Error("server: save review", zap.String("id", rep.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": rep.ID, "review": text})
}

// loadReport writes the error response itself when it returns false.
func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	if s.opts.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return nil, false
	}
	id := chi.URLParam(r, "id")
	rep, err := s.opts.Store.GetReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("server: get report", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return nil, false
	}
	return rep, true
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid")
	}
	return n, nil
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatYAML:
		return "application/yaml"
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case report.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
