// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
	"github.com/Shivanand-hulikatti/event-participants/internal/repository"
	"github.com/Shivanand-hulikatti/event-participants/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MB

// EventHandler holds all HTTP handlers for the events API.
type EventHandler struct {
	svc          *service.EventService
	maxBodyBytes int64
}

// NewEventHandler constructs an EventHandler. A non-positive maxBodyBytes
// falls back to 1 MB.
func NewEventHandler(svc *service.EventService, maxBodyBytes int64) *EventHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &EventHandler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func (h *EventHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// writeServiceError maps a service error to its status code. Anything that is
// not a known kind is a store fault and surfaces as 400 with its detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "store operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"err", err,
		)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// ─── Events ───────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events/
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.Event
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events/
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{eventID}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{eventID}
// Only the fields present in the body are applied.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch model.EventPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{eventID}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Participants ─────────────────────────────────────────────────────────────

// AddParticipant handles POST /events/{eventID}/participants/
func (h *EventHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req model.Participant
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.AddParticipant(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListParticipants handles GET /events/{eventID}/participants/
func (h *EventHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListParticipants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if ps == nil {
		ps = []model.Participant{}
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetParticipant handles GET /events/{eventID}/participants/{participantID}
func (h *EventHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetParticipant(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "participantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateParticipant handles PUT /events/{eventID}/participants/{participantID}
func (h *EventHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	var patch model.ParticipantPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.UpdateParticipant(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "participantID"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteParticipant handles DELETE /events/{eventID}/participants/{participantID}
func (h *EventHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteParticipant(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "participantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Misc ─────────────────────────────────────────────────────────────────────

// Home handles GET /
func Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Hello World")
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
