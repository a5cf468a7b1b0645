// Package server exposes the import pipeline over HTTP: multipart uploads
// in, per-file outcomes out, plus review-CSV downloads.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/categorize"
	"github.com/mvfrancisco/extrato/pkg/config"
	"github.com/mvfrancisco/extrato/pkg/csv"
	"github.com/mvfrancisco/extrato/pkg/ingest"
	"github.com/mvfrancisco/extrato/pkg/models"
)

// Server handles statement uploads.
type Server struct {
	config      *config.Config
	logger      *log.Logger
	mux         *http.ServeMux
	engine      *ingest.Engine
	categorizer *categorize.Engine

	// candidates caches valid rows per uploaded file name for CSV download.
	candidates sync.Map

	routesOnce sync.Once
}

// New creates the HTTP server. A rules file in the config replaces the
// built-in categorization table.
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	categorizer := categorize.New()
	if cfg.RulesPath != "" {
		loaded, err := categorize.FromFile(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		categorizer = loaded
	}

	return &Server{
		config:      cfg,
		logger:      logger,
		mux:         http.NewServeMux(),
		engine:      ingest.New(logger),
		categorizer: categorizer,
	}, nil
}

// Start begins serving on addr.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the configured mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	s.setupRoutes()
	return s.mux
}

func (s *Server) setupRoutes() {
	s.routesOnce.Do(s.registerRoutes)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to parse upload", err)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		s.respondError(w, r, http.StatusBadRequest, "no files uploaded", nil)
		return
	}

	var files []ingest.File
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
			return
		}
		files = append(files, ingest.File{Name: header.Filename, Data: data})
	}

	sessionID := r.FormValue("session_id")
	outcomes := s.engine.ParseFiles(r.Context(), files, sessionID)

	suggestions := make(map[string]categorize.Result)
	for _, outcome := range outcomes {
		if outcome.Status != models.OutcomeSuccess {
			continue
		}
		valid := outcome.Result.Valid()
		s.candidates.Store(outcome.FileName, valid)
		for _, c := range valid {
			res := s.categorizer.Categorize(c.Description, c.ExtraDescription, c.AmountCents, c.Kind)
			if res.CategoryKey != "" {
				suggestions[c.IdempotencyKey] = res
			}
		}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"outcomes":    outcomes,
		"suggestions": suggestions,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	fileName := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if fileName == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.candidates.Load(fileName)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	candidates, ok := value.([]*models.Candidate)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName+"-review.csv"))
	if _, err := w.Write(csv.Render(candidates, nil)); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
