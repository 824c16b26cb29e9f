package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-gym-api/internal/application/class"
	"github.com/go-gym-api/internal/domain"
)

// ClassHandler handles class session and reservation endpoints.
type ClassHandler struct {
	svc class.Service
}

func NewClassHandler(svc class.Service) *ClassHandler { return &ClassHandler{svc: svc} }

func (h *ClassHandler) Available(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	at, err := atParam(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	classes, err := h.svc.ListAvailable(r.Context(), c, at)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.Get(r.Context(), c, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ClassSessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BadRequest")
		return
	}
	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.ClassSessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BadRequest")
		return
	}
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the session and every reservation on it.
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "session deleted"})
}

func (h *ClassHandler) Book(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Book(r.Context(), c, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ClassHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), c, chi.URLParam(r, "id")); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "reservation cancelled"})
}

func (h *ClassHandler) Roster(w http.ResponseWriter, r *http.Request) {
	rs, err := h.svc.Roster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *ClassHandler) MyReservations(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	rs, err := h.svc.MyReservations(r.Context(), c)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// Access reports which screens the caller's membership unlocks.
func (h *ClassHandler) Access(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Access(r.Context(), c)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
