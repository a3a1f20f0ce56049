// Package api exposes the board over a JSON REST surface plus the /ws
// broadcast endpoint and /uploads blob serving.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dkuiper/taskboard/internal/blobstore"
	"github.com/dkuiper/taskboard/internal/service"
)

type Server struct {
	service    *service.BoardService
	hub        http.Handler
	blobs      blobstore.BlobStore
	mux        *http.ServeMux
	corsOrigin string
	logger     *slog.Logger
}

func NewServer(svc *service.BoardService, hub http.Handler, blobs blobstore.BlobStore, corsOrigin string, logger *slog.Logger) *Server {
	s := &Server{
		service:    svc,
		hub:        hub,
		blobs:      blobs,
		mux:        http.NewServeMux(),
		corsOrigin: corsOrigin,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	s.mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("PUT /api/jobs/{id}", s.handleUpdateJob)
	s.mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	s.mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	s.mux.HandleFunc("GET /api/tasks/team/{teamId}", s.handleListTeamTasks)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	s.mux.HandleFunc("POST /api/tasks/{id}/photos", s.handleUploadPhoto)
	s.mux.HandleFunc("GET /api/tasks/{id}/photos", s.handleListPhotos)
	s.mux.HandleFunc("PUT /api/tasks/photos/{id}", s.handleUpdatePhotoCaption)
	s.mux.HandleFunc("DELETE /api/tasks/photos/{id}", s.handleDeletePhoto)

	s.mux.HandleFunc("POST /api/tasks/{id}/notes", s.handleAddNote)
	s.mux.HandleFunc("GET /api/tasks/{id}/notes", s.handleListNotes)
	s.mux.HandleFunc("DELETE /api/tasks/notes/{id}", s.handleDeleteNote)

	s.mux.HandleFunc("GET /api/teams", s.handleListTeams)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /uploads/{filename}", s.handleServeUpload)
	s.mux.Handle("GET /ws", s.hub)
}

// corsHeaders lets the browser client call the API from a separately served
// origin. Preflight requests are answered here and go no further.
func corsHeaders(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer so the /ws upgrade can reach the
// Hijacker through http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, corsHeaders(s.corsOrigin, s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
