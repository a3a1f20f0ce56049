package api

import (
	"net/http"

	"github.com/dkuiper/taskboard/internal/domain"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.ListTasks(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleListTeamTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.ListTeamTasks(r.Context(), r.PathValue("teamId"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	task, err := s.service.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, s.logger, err)
		return
	}
	task, err := s.service.CreateTask(r.Context(), &in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var update domain.TaskUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, s.logger, err)
		return
	}
	task, err := s.service.UpdateTask(r.Context(), id, &update)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.service.DeleteTask(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
