package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"sharehub/internal/domain"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain sentinels to HTTP statuses. NotFound
// and Forbidden share 404 so responses don't reveal whether an entity
// exists.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrUnsupportedState),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrStatusAlreadySet):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUserInUse),
		errors.Is(err, domain.ErrItemInUse):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
