package api

import (
	"io"
	"net/http"

	"github.com/dkuiper/taskboard/internal/service"
)

// multipart framing on top of the photo itself
const uploadFormSlack = 1 << 20

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxPhotoSize+uploadFormSlack)
	if err := r.ParseMultipartForm(service.MaxPhotoSize); err != nil {
		writeError(w, s.logger, err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	defer file.Close()

	photo, err := s.service.UploadPhoto(r.Context(), taskID, &service.PhotoUpload{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Caption:      r.FormValue("caption"),
		Data:         file,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	photos, err := s.service.ListPhotos(r.Context(), taskID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (s *Server) handleUpdatePhotoCaption(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var body struct {
		Caption string `json:"caption"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}
	photo, err := s.service.UpdatePhotoCaption(r.Context(), id, body.Caption)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.service.DeletePhoto(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "photo deleted"})
}

// handleServeUpload streams a stored photo back to the browser.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	blob, mimeType, err := s.blobs.Get(r.Context(), r.PathValue("filename"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, blob); err != nil {
		s.logger.Warn("failed to stream photo", "error", err)
	}
}
