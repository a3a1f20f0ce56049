package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dkuiper/taskboard/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognized is
// a 500 with a generic body; internals stay in the log.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
		return
	}

	var uerr *domain.UploadError
	if errors.As(err, &uerr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": uerr.Error()})
		return
	}

	// ParseMultipartForm does not always wrap the limit error, so match the
	// message as well.
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"error": "upload rejected: file exceeds the 10MB limit",
		})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// idParam parses the {id} path segment. A non-numeric id is a client error,
// reported the same way a missing entity would be.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// decodeBody decodes a JSON request body into v. Unknown fields are
// ignored, so older clients with extra cached fields still round-trip.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Fields: map[string]string{"body": "invalid JSON: " + err.Error()}}
	}
	return nil
}
