// Package api serves the analysis pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/store"
)

// Response messages.
const (
	MsgAnalysisCompleted = "Client intelligence analysis completed"
	MsgInvalidBody       = "Invalid request body"
	MsgAnalyzeFailed     = "Failed to analyze client"
	MsgSaveFailed        = "Failed to save client intelligence"
)

const maxBodyBytes = 1 << 20

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.IntelligenceReport, error)
}

// Options configures a Server.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Server holds the HTTP handlers.
type Server struct {
	analyzer Analyzer
	opts     Options
}

// New creates a Server.
func New(analyzer Analyzer, opts Options) *Server {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	return &Server{analyzer: analyzer, opts: opts}
}

// Routes returns the router with all middleware mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
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

	r.Get("/health", s.health)
	r.Post("/api/client-intelligence", s.analyze)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type successResponse struct {
	Success      bool                      `json:"success"`
	Intelligence *model.IntelligenceReport `json:"intelligence"`
	Message      string                    `json:"message"`
}

type errorResponse struct {
	Error        string                    `json:"error"`
	Details      string                    `json:"details,omitempty"`
	Intelligence *model.IntelligenceReport `json:"intelligence,omitempty"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgInvalidBody})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	defer cancel()

	intel, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		writeError(w, err, intel)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{
		Success:      true,
		Intelligence: intel,
		Message:      MsgAnalysisCompleted,
	})
}

func writeError(w http.ResponseWriter, err error, intel *model.IntelligenceReport) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}
	var pe *store.PersistenceError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:        MsgSaveFailed,
			Details:      pe.Error(),
			Intelligence: intel,
		})
		return
	}
	zap.L().Error("api: analysis failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgAnalyzeFailed, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

// requestLogger logs one line per request.
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
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
