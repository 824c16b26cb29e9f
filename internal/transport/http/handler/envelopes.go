package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-gym-api/internal/application/access"
	"github.com/go-gym-api/internal/domain"
	"github.com/go-gym-api/internal/transport/http/middleware"
)

// MessageEnvelope is the generic success wrapper.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorEnvelope{Error: msg, Code: code})
}

// httpError maps service errors onto status codes. The more specific
// conflicts are checked before ErrConflict, which they wrap.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	var denied *access.DeniedError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "ValidationError")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error(), "BadRequest")
	case errors.Is(err, domain.ErrAlreadyBooked):
		writeError(w, http.StatusConflict, "reservation already exists", "AlreadyBooked")
	case errors.Is(err, domain.ErrSessionFull):
		writeError(w, http.StatusConflict, "session is full", "SessionFull")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error(), "Conflict")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NotFound")
	case errors.As(err, &denied):
		writeJSON(w, http.StatusForbidden, ErrorEnvelope{Error: "forbidden", Code: "Forbidden", Reason: string(denied.Reason)})
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "Forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, domain.ErrIntegrity):
		slog.Error("integrity violation", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "integrity violation", "IntegrityError")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "Internal")
	}
}

// caller returns the authenticated caller or writes 401.
func caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c := middleware.CallerFromContext(r.Context())
	if c.UserID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return c, false
	}
	return c, true
}

// atParam parses the optional ?at= evaluation time. The zero time means now.
func atParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: at must be RFC3339", domain.ErrBadRequest)
	}
	return at, nil
}
