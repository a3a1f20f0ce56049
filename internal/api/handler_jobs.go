package api

import (
	"net/http"
	"time"

	"github.com/dkuiper/taskboard/internal/domain"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.service.ListJobs(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	job, err := s.service.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var in domain.JobInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, s.logger, err)
		return
	}
	job, err := s.service.CreateJob(r.Context(), &in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var update domain.JobUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, s.logger, err)
		return
	}
	job, err := s.service.UpdateJob(r.Context(), id, &update)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.service.DeleteJob(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Teams())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"database":  "sqlite",
		"timestamp": time.Now().UTC(),
	})
}
