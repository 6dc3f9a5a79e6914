package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/homies-events/server/internal/api/middleware"
	"github.com/homies-events/server/internal/api/problem"
	"github.com/homies-events/server/internal/domain/events"
	"github.com/homies-events/server/internal/metrics"
)

// EventAPIHandler serves the JSON surface under /api/v1. Authentication is
// handled by the bearer middleware; every handler can assume a user in
// context.
type EventAPIHandler struct {
	Events *events.Service
	Env    string
}

func NewEventAPIHandler(eventService *events.Service, env string) *EventAPIHandler {
	return &EventAPIHandler{Events: eventService, Env: env}
}

type eventSummaryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	Type      string `json:"type"`
	Organiser string `json:"organiser"`
}

type eventDetailResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	CreatedOn   string `json:"createdOn"`
	Organiser   string `json:"organiser"`
	Type        string `json:"type"`
}

type eventTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type eventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TypeID      int64     `json:"typeId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

func (req eventRequest) form() events.Form {
	return events.Form{
		Name:        req.Name,
		Description: req.Description,
		TypeID:      req.TypeID,
		Start:       req.Start,
		End:         req.End,
	}
}

// List handles GET /api/v1/events
func (h *EventAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Events.All(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summariesResponse(list))
}

// Joined handles GET /api/v1/events/joined
func (h *EventAPIHandler) Joined(w http.ResponseWriter, r *http.Request) {
	list, err := h.Events.Joined(r.Context(), middleware.CurrentUserID(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summariesResponse(list))
}

// Types handles GET /api/v1/event-types
func (h *EventAPIHandler) Types(w http.ResponseWriter, r *http.Request) {
	types, err := h.Events.Types(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	out := make([]eventTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, eventTypeResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/events
func (h *EventAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://homies.events/problems/validation-error", "Invalid request body", err, h.Env)
		return
	}

	id, err := h.Events.Create(r.Context(), middleware.CurrentUserID(r), req.form())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	metrics.EventsCreatedTotal.Inc()
	w.Header().Set("Location", "/api/v1/events/"+strconv.FormatInt(id, 10))
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get handles GET /api/v1/events/{id}
func (h *EventAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	detail, err := h.Events.Details(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, eventDetailResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Description: detail.Description,
		Start:       detail.Start,
		End:         detail.End,
		CreatedOn:   detail.CreatedOn,
		Organiser:   detail.Organiser,
		Type:        detail.Type,
	})
}

// Update handles PUT /api/v1/events/{id}
func (h *EventAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://homies.events/problems/validation-error", "Invalid request body", err, h.Env)
		return
	}

	if err := h.Events.Update(r.Context(), id, middleware.CurrentUserID(r), req.form()); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /api/v1/events/{id}/join
func (h *EventAPIHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Join(r.Context(), id, middleware.CurrentUserID(r)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	metrics.EventJoinsTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Leave handles POST /api/v1/events/{id}/leave
func (h *EventAPIHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Leave(r.Context(), id, middleware.CurrentUserID(r)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	metrics.EventLeavesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventAPIHandler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		// A non-numeric id can never name an event; treat it as missing.
		problem.Write(w, r, http.StatusNotFound, "https://homies.events/problems/not-found", "Event not found", problem.ErrNotFound, h.Env)
		return 0, false
	}
	return id, true
}

func (h *EventAPIHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if verrs, ok := events.AsValidationErrors(err); ok {
		fieldErrors := make(map[string]interface{}, len(verrs))
		for field, message := range verrs.ByField() {
			fieldErrors[field] = message
		}
		problem.Write(w, r, http.StatusUnprocessableEntity, "https://homies.events/problems/validation-error", "Validation failed", err, h.Env,
			problem.WithErrors(fieldErrors))
		return
	}

	switch {
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://homies.events/problems/not-found", "Event not found", err, h.Env)
	case errors.Is(err, events.ErrNotOrganiser):
		problem.Write(w, r, http.StatusUnauthorized, "https://homies.events/problems/unauthorized", "Only the organiser can modify this event", err, h.Env)
	case errors.Is(err, events.ErrNotParticipant):
		problem.Write(w, r, http.StatusNotFound, "https://homies.events/problems/not-found", "Participation not found", err, h.Env)
	default:
		h.serverError(w, r, err)
	}
}

func (h *EventAPIHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	problem.Write(w, r, http.StatusInternalServerError, "https://homies.events/problems/server-error", "Server error", err, h.Env)
}

func summariesResponse(list []events.Summary) []eventSummaryResponse {
	out := make([]eventSummaryResponse, 0, len(list))
	for _, summary := range list {
		out = append(out, eventSummaryResponse{
			ID:        summary.ID,
			Name:      summary.Name,
			Start:     summary.Start,
			Type:      summary.Type,
			Organiser: summary.Organiser,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
