package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/homies-events/server/internal/sanitize"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("component", "events").Logger(),
		now:      time.Now,
	}
}

// Types returns the administered type set for selection controls.
func (s *Service) Types(ctx context.Context) ([]TypeOption, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	options := make([]TypeOption, 0, len(types))
	for _, t := range types {
		options = append(options, TypeOption{ID: t.ID, Name: t.Name})
	}
	return options, nil
}

// Create validates the candidate form and persists a new event with the
// caller as organiser. On validation failure it returns ValidationErrors and
// writes nothing.
func (s *Service) Create(ctx context.Context, organiserID string, form Form) (int64, error) {
	form = cleanForm(form)

	errs := validateForm(s.validate, form)
	typeErrs, err := s.checkTypeExists(ctx, form.TypeID)
	if err != nil {
		return 0, err
	}
	errs = append(errs, typeErrs...)
	if len(errs) > 0 {
		return 0, errs
	}

	id, err := s.repo.Create(ctx, EventCreateParams{
		Name:        form.Name,
		Description: form.Description,
		OrganiserID: organiserID,
		TypeID:      form.TypeID,
		CreatedOn:   s.now().UTC(),
		Start:       form.Start,
		End:         form.End,
	})
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info().Int64("event_id", id).Str("organiser_id", organiserID).Msg("event created")
	return id, nil
}

// EditForm loads an event into a form for its organiser. Returns ErrNotFound
// for a missing event and ErrNotOrganiser when the caller did not create it.
func (s *Service) EditForm(ctx context.Context, id int64, callerID string) (*Form, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganiserID != callerID {
		return nil, ErrNotOrganiser
	}
	return &Form{
		Name:        event.Name,
		Description: event.Description,
		TypeID:      event.TypeID,
		Start:       event.Start,
		End:         event.End,
	}, nil
}

// Update overwrites the mutable fields of an event. The missing-event check
// runs first; the ownership check and the field validation are then both
// evaluated, neither short-circuiting the other, with the ownership failure
// taking precedence in the returned error.
func (s *Service) Update(ctx context.Context, id int64, callerID string, form Form) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	form = cleanForm(form)
	errs := validateForm(s.validate, form)
	typeErrs, err := s.checkTypeExists(ctx, form.TypeID)
	if err != nil {
		return err
	}
	errs = append(errs, typeErrs...)

	if event.OrganiserID != callerID {
		return ErrNotOrganiser
	}
	if len(errs) > 0 {
		return errs
	}

	if err := s.repo.Update(ctx, id, EventUpdateParams{
		Name:        form.Name,
		Description: form.Description,
		TypeID:      form.TypeID,
		Start:       form.Start,
		End:         form.End,
	}); err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	s.logger.Info().Int64("event_id", id).Msg("event updated")
	return nil
}

// All returns every event projected to the short listing view, in storage
// order.
func (s *Service) All(ctx context.Context) ([]Summary, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	summaries := make([]Summary, 0, len(items))
	for _, event := range items {
		summaries = append(summaries, summarize(event))
	}
	return summaries, nil
}

// Joined returns the short listing restricted to events the caller
// participates in.
func (s *Service) Joined(ctx context.Context, helperID string) ([]Summary, error) {
	items, err := s.repo.ListJoined(ctx, helperID)
	if err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	summaries := make([]Summary, 0, len(items))
	for _, event := range items {
		summaries = append(summaries, summarize(event))
	}
	return summaries, nil
}

// Details returns the full projection for one event.
func (s *Service) Details(ctx context.Context, id int64) (*Detail, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Start:       FormatTimestamp(event.Start),
		End:         FormatTimestamp(event.End),
		CreatedOn:   FormatTimestamp(event.CreatedOn),
		Organiser:   event.OrganiserName,
		Type:        event.TypeName,
	}, nil
}

// Join records the caller as a participant. Joining an event twice is a
// success both times; the storage layer's uniqueness guarantee keeps a
// single row even under concurrent duplicate requests.
func (s *Service) Join(ctx context.Context, id int64, helperID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.AddParticipant(ctx, id, helperID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	s.logger.Info().Int64("event_id", id).Str("helper_id", helperID).Msg("event joined")
	return nil
}

// Leave removes the caller's participation row. A missing event or a missing
// participation both surface as not-found; the organiser is free to leave
// their own event like any other participant.
func (s *Service) Leave(ctx context.Context, id int64, helperID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	removed, err := s.repo.RemoveParticipant(ctx, id, helperID)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if !removed {
		return ErrNotParticipant
	}
	s.logger.Info().Int64("event_id", id).Str("helper_id", helperID).Msg("event left")
	return nil
}

func (s *Service) checkTypeExists(ctx context.Context, typeID int64) (ValidationErrors, error) {
	if typeID == 0 {
		// already reported as required by the struct validation
		return nil, nil
	}
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	for _, t := range types {
		if t.ID == typeID {
			return nil, nil
		}
	}
	return ValidationErrors{{Field: "TypeID", Message: msgTypeMissing}}, nil
}

func cleanForm(form Form) Form {
	form.Name = sanitize.Text(form.Name)
	form.Description = sanitize.Text(form.Description)
	return form
}
