// Package server exposes document analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/review"
	"github.com/sells-group/prism/internal/store"
)

// Analyzer runs the consistency checks over a PDF on disk.
type Analyzer interface {
	Run(ctx context.Context, pdfPath string) (*model.AnalysisResult, error)
}

// Reviewer writes a narrative review of an analysis.
type Reviewer interface {
	Review(ctx context.Context, in review.Input) (string, error)
}

// Options configures optional collaborators. A nil Store disables report
// persistence and the /api/reports routes; a nil Reviewer disables reviews.
type Options struct {
	Store          store.Store
	Reviewer       Reviewer
	MaxUploadBytes int64
	CORSOrigins    []string
	TempDir        string
}

// Server handles the HTTP API.
type Server struct {
	analyzer Analyzer
	opts     Options
	router   chi.Router
}

const defaultMaxUploadBytes = 50 << 20

// New creates a Server with its routes mounted.
func New(analyzer Analyzer, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{analyzer: analyzer, opts: opts, router: chi.NewRouter()}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/upload", s.handleUpload)
	r.Get("/api/upload", s.handleUploadGet)

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/", s.handleListReports)
		r.Get("/{id}", s.handleGetReport)
		r.Post("/{id}/review", s.handleReview)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleUploadGet(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed,
		"This endpoint only accepts POST requests with file uploads. Use POST method with multipart/form-data.")
}

// requestLogger logs one line per request with zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
