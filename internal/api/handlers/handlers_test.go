package handlers

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homies-events/server/internal/api/middleware"
	"github.com/homies-events/server/internal/auth"
	"github.com/homies-events/server/internal/domain/events"
	"github.com/homies-events/server/internal/domain/users"
	"github.com/homies-events/server/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// memoryEventRepo is an in-memory events.Repository for handler tests.
type memoryEventRepo struct {
	nextID       int64
	events       map[int64]*events.Event
	participants map[int64]map[string]bool
	types        []events.EventType
	users        map[string]string // id -> username
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{
		nextID:       1,
		events:       make(map[int64]*events.Event),
		participants: make(map[int64]map[string]bool),
		types: []events.EventType{
			{ID: 1, Name: "Games"},
			{ID: 2, Name: "Party"},
		},
		users: map[string]string{
			"user-1": "alice",
			"user-2": "bob",
		},
	}
}

func (r *memoryEventRepo) Create(_ context.Context, params events.EventCreateParams) (int64, error) {
	id := r.nextID
	r.nextID++
	typeName := ""
	for _, t := range r.types {
		if t.ID == params.TypeID {
			typeName = t.Name
		}
	}
	r.events[id] = &events.Event{
		ID:            id,
		Name:          params.Name,
		Description:   params.Description,
		OrganiserID:   params.OrganiserID,
		OrganiserName: r.users[params.OrganiserID],
		TypeID:        params.TypeID,
		TypeName:      typeName,
		CreatedOn:     params.CreatedOn,
		Start:         params.Start,
		End:           params.End,
	}
	return id, nil
}

func (r *memoryEventRepo) GetByID(_ context.Context, id int64) (*events.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *memoryEventRepo) List(_ context.Context) ([]events.Event, error) {
	out := make([]events.Event, 0, len(r.events))
	for id := int64(1); id < r.nextID; id++ {
		if event, ok := r.events[id]; ok {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) ListJoined(_ context.Context, helperID string) ([]events.Event, error) {
	out := make([]events.Event, 0)
	for id := int64(1); id < r.nextID; id++ {
		if r.participants[id][helperID] {
			out = append(out, *r.events[id])
		}
	}
	return out, nil
}

func (r *memoryEventRepo) Update(_ context.Context, id int64, params events.EventUpdateParams) error {
	event, ok := r.events[id]
	if !ok {
		return events.ErrNotFound
	}
	event.Name = params.Name
	event.Description = params.Description
	event.TypeID = params.TypeID
	event.Start = params.Start
	event.End = params.End
	for _, t := range r.types {
		if t.ID == params.TypeID {
			event.TypeName = t.Name
		}
	}
	return nil
}

func (r *memoryEventRepo) AddParticipant(_ context.Context, eventID int64, helperID string) error {
	if r.participants[eventID] == nil {
		r.participants[eventID] = make(map[string]bool)
	}
	r.participants[eventID][helperID] = true
	return nil
}

func (r *memoryEventRepo) RemoveParticipant(_ context.Context, eventID int64, helperID string) (bool, error) {
	if !r.participants[eventID][helperID] {
		return false, nil
	}
	delete(r.participants[eventID], helperID)
	return true, nil
}

func (r *memoryEventRepo) ListTypes(_ context.Context) ([]events.EventType, error) {
	return r.types, nil
}

// memoryUserRepo is an in-memory users.Repository.
type memoryUserRepo struct {
	byUsername map[string]*users.User
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	user, ok := r.byUsername[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, users.ErrNotFound
}

type testEnv struct {
	repo      *memoryEventRepo
	events    *events.Service
	templates *template.Template
	pages     *EventPagesHandler
	api       *EventAPIHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newMemoryEventRepo()
	service := events.NewService(repo, zerolog.Nop())

	templates, err := web.Templates()
	require.NoError(t, err)

	return &testEnv{
		repo:      repo,
		events:    service,
		templates: templates,
		pages:     NewEventPagesHandler(service, templates, "test"),
		api:       NewEventAPIHandler(service, "test"),
	}
}

// authenticate attaches session claims for userID the way the session
// middleware would.
func authenticate(r *http.Request, userID, username string) *http.Request {
	manager := auth.NewSessionManager("handler-test-secret-0123456789abcdef", time.Hour, "homies")
	token, err := manager.Generate(userID, username)
	if err != nil {
		panic(err)
	}

	var out *http.Request
	wrap := middleware.BearerAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		out = req
	}))
	r.Header.Set("Authorization", "Bearer "+token)
	wrap.ServeHTTP(httptest.NewRecorder(), r)
	if out == nil {
		panic("authentication failed in test setup")
	}
	return out
}

func seedEvent(t *testing.T, env *testEnv, organiserID string) int64 {
	t.Helper()
	id, err := env.repo.Create(context.Background(), events.EventCreateParams{
		Name:        "Board Games Night",
		Description: "An evening of modern board games for everyone.",
		OrganiserID: organiserID,
		TypeID:      1,
		CreatedOn:   time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
		Start:       time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return id
}
