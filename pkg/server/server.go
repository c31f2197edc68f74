package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/semaphore"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/core"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Processor is what the HTTP surface needs from the file processor
type Processor interface {
	interfaces.FileProcessor
	EngineReport() core.EngineReport
}

// Server exposes extraction over HTTP
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	processor  Processor
	docs       *semaphore.Weighted
	httpServer *http.Server
}

// New builds the server and its routes
func New(cfg *config.Config, processor Processor, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	limit := int64(cfg.MaxConcurrentDocuments)
	if limit < 1 {
		limit = 1
	}

	s := &Server{
		config:    cfg,
		logger:    log.WithComponent("server"),
		processor: processor,
		docs:      semaphore.NewWeighted(limit),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
	}
	return s
}

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(api chi.Router) {
		api.Post("/extract", s.handleExtract)
		api.Get("/engines", s.handleEngines)
	})

	return r
}

// Start listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.ProgressAlways("🌐", "Listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.processor.EngineReport())
}

// handleExtract accepts a multipart upload in field "file" and an optional
// "language" field, and answers with the DocumentResult
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if limit := s.config.MaxUploadSize; limit > 0 {
		if r.ContentLength > limit {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.config.MaxUploadSize))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	language := r.FormValue("language")

	if err := s.docs.Acquire(r.Context(), 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for a worker")
		return
	}
	defer s.docs.Release(1)

	tm := utils.NewSimpleTempManager(s.config.TempDir, s.logger)
	defer func() {
		if err := tm.Cleanup(); err != nil {
			s.logger.Warn("Failed to clean upload scratch space: %v", err)
		}
	}()

	inputPath, err := saveUpload(tm, header.Filename, file)
	if err != nil {
		s.logger.Error("Failed to store upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	s.logger.Info("Extracting %s (%d bytes)", filepath.Base(header.Filename), header.Size)
	result := s.processor.ProcessFile(r.Context(), inputPath, language)

	status := http.StatusOK
	if !result.Success {
		status = statusForError(result.Error)
	}
	writeJSON(w, status, result)
}

// saveUpload copies the upload into scratch space, keeping its extension so
// the document kind can be detected
func saveUpload(tm *utils.SimpleTempManager, filename string, src io.Reader) (string, error) {
	ext := filepath.Ext(filepath.Base(filename))
	if ext != "" {
		ext = utils.SanitizeFileName(ext)
	}
	path, err := tm.CreateTempFile("upload", ext)
	if err != nil {
		return "", err
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermission)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return path, dst.Close()
}

// statusForError maps a failed result onto an HTTP status.
// Engine failures and empty results are still well-formed answers.
func statusForError(reason string) int {
	switch {
	case reason == "":
		return http.StatusInternalServerError
	case utils.IsNoEngineReason(reason):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("%s %s -> %d (%s) [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
