package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homies-events/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

const eventColumns = `
e.id, e.name, e.description, e.organiser_id, u.username, e.type_id, t.name,
e.created_on, e.start_at, e.end_at`

func (r *EventRepository) Create(ctx context.Context, params events.EventCreateParams) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO events (name, description, organiser_id, type_id, created_on, start_at, end_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		params.Name,
		params.Description,
		params.OrganiserID,
		params.TypeID,
		params.CreatedOn,
		params.Start,
		params.End,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events e
  JOIN users u ON u.id = e.organiser_id
  JOIN event_types t ON t.id = e.type_id
 WHERE e.id = $1`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events e
  JOIN users u ON u.id = e.organiser_id
  JOIN event_types t ON t.id = e.type_id
 ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) ListJoined(ctx context.Context, helperID string) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events e
  JOIN users u ON u.id = e.organiser_id
  JOIN event_types t ON t.id = e.type_id
  JOIN event_participants p ON p.event_id = e.id
 WHERE p.helper_id = $1
 ORDER BY e.id`, helperID)
	if err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, id int64, params events.EventUpdateParams) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE events
   SET name = $1, description = $2, type_id = $3, start_at = $4, end_at = $5
 WHERE id = $6`,
		params.Name,
		params.Description,
		params.TypeID,
		params.Start,
		params.End,
		id,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// AddParticipant relies on the (event_id, helper_id) primary key: a
// duplicate insert is swallowed by ON CONFLICT, so concurrent joins from the
// same user cannot produce a second row.
func (r *EventRepository) AddParticipant(ctx context.Context, eventID int64, helperID string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO event_participants (event_id, helper_id)
VALUES ($1, $2)
ON CONFLICT (event_id, helper_id) DO NOTHING`, eventID, helperID)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID int64, helperID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM event_participants
 WHERE event_id = $1 AND helper_id = $2`, eventID, helperID)
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EventRepository) ListTypes(ctx context.Context) ([]events.EventType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM event_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	defer rows.Close()

	var types []events.EventType
	for rows.Next() {
		var t events.EventType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event types: %w", err)
	}
	return types, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.OrganiserID,
		&event.OrganiserName,
		&event.TypeID,
		&event.TypeName,
		&event.CreatedOn,
		&event.Start,
		&event.End,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}
