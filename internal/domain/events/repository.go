package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

// ErrNotOrganiser is returned when a caller tries to edit an event they did
// not create.
var ErrNotOrganiser = errors.New("caller is not the event organiser")

// ErrNotParticipant is returned when a caller tries to leave an event they
// have not joined.
var ErrNotParticipant = errors.New("participation not found")

type Event struct {
	ID            int64
	Name          string
	Description   string
	OrganiserID   string
	OrganiserName string
	TypeID        int64
	TypeName      string
	CreatedOn     time.Time
	Start         time.Time
	End           time.Time
}

type EventType struct {
	ID   int64
	Name string
}

type EventCreateParams struct {
	Name        string
	Description string
	OrganiserID string
	TypeID      int64
	CreatedOn   time.Time
	Start       time.Time
	End         time.Time
}

// EventUpdateParams carries the mutable fields of an event. OrganiserID and
// CreatedOn are set once at creation and never change.
type EventUpdateParams struct {
	Name        string
	Description string
	TypeID      int64
	Start       time.Time
	End         time.Time
}

type Repository interface {
	Create(ctx context.Context, params EventCreateParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	ListJoined(ctx context.Context, helperID string) ([]Event, error)
	Update(ctx context.Context, id int64, params EventUpdateParams) error

	// AddParticipant records that helperID joined the event. Inserting an
	// existing (event, helper) pair is a no-op; the storage layer enforces
	// uniqueness so concurrent duplicate joins cannot produce two rows.
	AddParticipant(ctx context.Context, eventID int64, helperID string) error

	// RemoveParticipant deletes the (event, helper) participation row and
	// reports whether a row existed.
	RemoveParticipant(ctx context.Context, eventID int64, helperID string) (bool, error)

	ListTypes(ctx context.Context) ([]EventType, error)
}
