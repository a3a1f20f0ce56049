package api

import (
	"net/http"

	"github.com/dkuiper/taskboard/internal/domain"
)

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var in domain.NoteInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, s.logger, err)
		return
	}
	note, err := s.service.AddNote(r.Context(), taskID, &in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	notes, err := s.service.ListNotes(r.Context(), taskID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.service.DeleteNote(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
