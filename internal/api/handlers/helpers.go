package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"store-route-service/internal/domain"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinels to HTTP statuses. Anything else is a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	var re *domain.RequestError
	if errors.As(err, &re) {
		msg = re.Reason
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidLocation):
		writeError(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrUnknownStore):
		writeError(w, r, http.StatusNotFound, msg)
	case errors.Is(err, domain.ErrNoUsablePoints):
		writeError(w, r, http.StatusUnprocessableEntity, msg)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
