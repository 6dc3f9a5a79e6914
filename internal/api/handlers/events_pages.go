package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/homies-events/server/internal/api/middleware"
	"github.com/homies-events/server/internal/domain/events"
	"github.com/homies-events/server/internal/metrics"
	"github.com/rs/zerolog"
)

// datetimeLocalLayout matches the value format of <input type="datetime-local">
const datetimeLocalLayout = "2006-01-02T15:04"

// EventPagesHandler renders the HTML surface: listings, the create/edit
// forms, details, and the join/leave form posts.
type EventPagesHandler struct {
	Events    *events.Service
	Templates *template.Template
	Env       string
}

func NewEventPagesHandler(eventService *events.Service, templates *template.Template, env string) *EventPagesHandler {
	return &EventPagesHandler{
		Events:    eventService,
		Templates: templates,
		Env:       env,
	}
}

// eventFormView carries form values back to the template as strings so a
// rejected submission re-renders exactly what the user typed.
type eventFormView struct {
	Name        string
	Description string
	TypeID      int64
	Start       string
	End         string
}

func formViewFrom(form events.Form) eventFormView {
	view := eventFormView{
		Name:        form.Name,
		Description: form.Description,
		TypeID:      form.TypeID,
	}
	if !form.Start.IsZero() {
		view.Start = form.Start.Format(datetimeLocalLayout)
	}
	if !form.End.IsZero() {
		view.End = form.End.Format(datetimeLocalLayout)
	}
	return view
}

// parseEventForm reads a submitted event form. Unparseable timestamps are
// left as zero values and surface as "required" validation messages.
func parseEventForm(r *http.Request) events.Form {
	form := events.Form{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	if typeID, err := strconv.ParseInt(r.PostFormValue("typeId"), 10, 64); err == nil {
		form.TypeID = typeID
	}
	if start, err := time.Parse(datetimeLocalLayout, r.PostFormValue("start")); err == nil {
		form.Start = start
	}
	if end, err := time.Parse(datetimeLocalLayout, r.PostFormValue("end")); err == nil {
		form.End = end
	}
	return form
}

// All handles GET /events
func (h *EventPagesHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.Events.All(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "events_list.html", map[string]any{
		"Title":  "All Events",
		"Events": list,
	})
}

// Joined handles GET /events/joined
func (h *EventPagesHandler) Joined(w http.ResponseWriter, r *http.Request) {
	list, err := h.Events.Joined(r.Context(), middleware.CurrentUserID(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "events_joined.html", map[string]any{
		"Title":  "Joined Events",
		"Events": list,
	})
}

// NewForm handles GET /events/new
func (h *EventPagesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	types, err := h.Events.Types(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.renderForm(w, r, http.StatusOK, "Add Event", "/events/new", "Create", eventFormView{}, types, nil)
}

// Create handles POST /events/new
func (h *EventPagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := parseEventForm(r)
	_, err := h.Events.Create(r.Context(), middleware.CurrentUserID(r), form)
	if err != nil {
		if verrs, ok := events.AsValidationErrors(err); ok {
			types, typesErr := h.Events.Types(r.Context())
			if typesErr != nil {
				h.serverError(w, r, typesErr)
				return
			}
			h.renderForm(w, r, http.StatusUnprocessableEntity, "Add Event", "/events/new", "Create", formViewFrom(form), types, verrs.ByField())
			return
		}
		h.serverError(w, r, err)
		return
	}

	metrics.EventsCreatedTotal.Inc()
	http.Redirect(w, r, "/events", http.StatusFound)
}

// Details handles GET /events/{id}
func (h *EventPagesHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	detail, err := h.Events.Details(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	claims := middleware.SessionClaims(r)
	h.render(w, r, http.StatusOK, "event_details.html", map[string]any{
		"Title":       detail.Name,
		"Event":       detail,
		"IsOrganiser": claims != nil && detail.Organiser == claims.Username,
	})
}

// EditForm handles GET /events/{id}/edit
func (h *EventPagesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	form, err := h.Events.EditForm(r.Context(), id, middleware.CurrentUserID(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	types, err := h.Events.Types(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	action := "/events/" + strconv.FormatInt(id, 10) + "/edit"
	h.renderForm(w, r, http.StatusOK, "Edit Event", action, "Save", formViewFrom(*form), types, nil)
}

// EditSubmit handles POST /events/{id}/edit
func (h *EventPagesHandler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := parseEventForm(r)
	err := h.Events.Update(r.Context(), id, middleware.CurrentUserID(r), form)
	if err != nil {
		if verrs, ok := events.AsValidationErrors(err); ok {
			types, typesErr := h.Events.Types(r.Context())
			if typesErr != nil {
				h.serverError(w, r, typesErr)
				return
			}
			action := "/events/" + strconv.FormatInt(id, 10) + "/edit"
			h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit Event", action, "Save", formViewFrom(form), types, verrs.ByField())
			return
		}
		h.writeDomainError(w, r, err)
		return
	}

	http.Redirect(w, r, "/events", http.StatusFound)
}

// Join handles POST /events/{id}/join
func (h *EventPagesHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Join(r.Context(), id, middleware.CurrentUserID(r)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	metrics.EventJoinsTotal.Inc()
	http.Redirect(w, r, "/events/joined", http.StatusFound)
}

// Leave handles POST /events/{id}/leave
func (h *EventPagesHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Leave(r.Context(), id, middleware.CurrentUserID(r)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	metrics.EventLeavesTotal.Inc()
	http.Redirect(w, r, "/events", http.StatusFound)
}

func (h *EventPagesHandler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (h *EventPagesHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// A participation that does not exist is as missing as the event itself.
	case errors.Is(err, events.ErrNotFound), errors.Is(err, events.ErrNotParticipant):
		http.NotFound(w, r)
	case errors.Is(err, events.ErrNotOrganiser):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		h.serverError(w, r, err)
	}
}

func (h *EventPagesHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("page handler error")
	http.Error(w, "Server error", http.StatusInternalServerError)
}

func (h *EventPagesHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, heading, action, submit string, form eventFormView, types []events.TypeOption, fieldErrors map[string]string) {
	h.render(w, r, status, "event_form.html", map[string]any{
		"Title":   heading,
		"Heading": heading,
		"Action":  action,
		"Submit":  submit,
		"Form":    form,
		"Types":   types,
		"Errors":  fieldErrors,
	})
}

func (h *EventPagesHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if claims := middleware.SessionClaims(r); claims != nil {
		data["Username"] = claims.Username
	}
	data["CSRFField"] = middleware.CSRFTemplateField(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Templates.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("template error")
	}
}
