package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventPages_AllListsEvents(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := authenticate(httptest.NewRequest(http.MethodGet, "/events", nil), "user-2", "bob")
	rec := httptest.NewRecorder()

	env.pages.All(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Board Games Night")
	require.Contains(t, rec.Body.String(), "01/06/2024 18:00")
	require.Contains(t, rec.Body.String(), "alice")
}

func TestEventPages_CreateRedirectsToListing(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"name":        {"Quiz Night"},
		"description": {"A pub quiz with prizes for the top teams."},
		"typeId":      {"2"},
		"start":       {"2024-07-01T19:00"},
		"end":         {"2024-07-01T22:00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/events/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.Create(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/events", rec.Header().Get("Location"))
	require.Len(t, env.repo.events, 1)
}

func TestEventPages_CreateRerendersOnValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"name":        {"abc"},
		"description": {"A pub quiz with prizes for the top teams."},
		"typeId":      {"2"},
		"start":       {"2024-07-01T19:00"},
		"end":         {"2024-07-01T22:00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/events/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.Create(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Event name must be between 5 and 20 characters.")
	// The typed values survive the round trip
	require.Contains(t, rec.Body.String(), "A pub quiz with prizes for the top teams.")
	require.Empty(t, env.repo.events)
}

func TestEventPages_CreateRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"name":        {"Quiz Night"},
		"description": {"A pub quiz with prizes for the top teams."},
		"typeId":      {"99"},
		"start":       {"2024-07-01T19:00"},
		"end":         {"2024-07-01T22:00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/events/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.Create(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Type does not exist!")
}

func TestEventPages_DetailsRendersProjection(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/events/1", nil)
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.Details(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Board Games Night")
	require.Contains(t, body, "01/06/2024 22:00")
	require.Contains(t, body, "20/05/2024 12:00")
	// The organiser sees an edit link
	require.Contains(t, body, "/events/1/edit")
}

func TestEventPages_DetailsMissingEventIs404(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/events/42", nil)
	req.SetPathValue("id", "42")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.Details(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventPages_EditFormOnlyForOrganiser(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/events/1/edit", nil)
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-2", "bob")
	rec := httptest.NewRecorder()

	env.pages.EditForm(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventPages_EditFormPrefilled(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/events/1/edit", nil)
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.EditForm(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Board Games Night")
	require.Contains(t, rec.Body.String(), "2024-06-01T18:00")
}

func TestEventPages_EditSubmitUpdatesEvent(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	form := url.Values{
		"name":        {"Games Marathon"},
		"description": {"A full day of board games and card games."},
		"typeId":      {"1"},
		"start":       {"2024-06-02T10:00"},
		"end":         {"2024-06-02T23:00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/events/1/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	env.pages.EditSubmit(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "Games Marathon", env.repo.events[1].Name)
}

func TestEventPages_JoinRedirectsToJoined(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/events/1/join", nil)
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-2", "bob")
	rec := httptest.NewRecorder()

	env.pages.Join(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/events/joined", rec.Header().Get("Location"))
	require.True(t, env.repo.participants[1]["user-2"])
}

func TestEventPages_RepeatJoinStillRedirectsToJoined(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/events/1/join", nil)
		req.SetPathValue("id", "1")
		req = authenticate(req, "user-2", "bob")
		rec := httptest.NewRecorder()

		env.pages.Join(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/events/joined", rec.Header().Get("Location"))
	}
	require.Len(t, env.repo.participants[1], 1)
}

func TestEventPages_LeaveWithoutJoiningIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/events/1/leave", nil)
	req.SetPathValue("id", "1")
	req = authenticate(req, "user-2", "bob")
	rec := httptest.NewRecorder()

	env.pages.Leave(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventPages_JoinedListsOnlyOwnEvents(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, "user-1")

	joinReq := httptest.NewRequest(http.MethodPost, "/events/1/join", nil)
	joinReq.SetPathValue("id", "1")
	joinReq = authenticate(joinReq, "user-2", "bob")
	env.pages.Join(httptest.NewRecorder(), joinReq)

	req := authenticate(httptest.NewRequest(http.MethodGet, "/events/joined", nil), "user-2", "bob")
	rec := httptest.NewRecorder()
	env.pages.Joined(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Board Games Night")

	otherReq := authenticate(httptest.NewRequest(http.MethodGet, "/events/joined", nil), "user-1", "alice")
	otherRec := httptest.NewRecorder()
	env.pages.Joined(otherRec, otherReq)

	require.NotContains(t, otherRec.Body.String(), "Board Games Night")
}
