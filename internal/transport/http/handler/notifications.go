package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-gym-api/internal/application/notification"
	"github.com/go-gym-api/internal/domain"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func notificationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	nid, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || nid <= 0 {
		writeError(w, http.StatusBadRequest, "invalid notification id", "BadRequest")
		return 0, false
	}
	return nid, true
}

// List returns the caller's role-scoped feed evaluated at ?at= (default now).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	at, err := atParam(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	views, err := h.svc.List(r.Context(), c, at)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Get returns a single notification for editing, with its current state.
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Get(r.Context(), nid)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.NotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BadRequest")
		return
	}
	n, err := h.svc.Create(r.Context(), input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	var input domain.NotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BadRequest")
		return
	}
	n, err := h.svc.Update(r.Context(), nid, input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), nid); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification deleted"})
}
