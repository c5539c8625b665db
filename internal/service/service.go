// Package service implements the event and participant rules: the capacity
// invariant, participant id uniqueness and partial-update merges. Every
// participant mutation is a read-modify-write of the whole event document.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
	"github.com/Shivanand-hulikatti/event-participants/internal/repository"
	"github.com/google/uuid"
)

// ErrInvalidState is returned when a write would break the capacity invariant.
var ErrInvalidState = errors.New("invalid state")

// ErrValidation is returned for malformed input.
var ErrValidation = errors.New("validation error")

var (
	ErrEventNotFound       = fmt.Errorf("event %w", repository.ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", repository.ErrNotFound)
	ErrEventExists         = fmt.Errorf("event with this id %w", repository.ErrAlreadyExists)
	ErrParticipantExists   = fmt.Errorf("participant with this id %w", repository.ErrAlreadyExists)

	ErrEventFull                 = fmt.Errorf("%w: event capacity reached", ErrInvalidState)
	ErrCapacityBelowParticipants = fmt.Errorf("%w: capacity cannot be less than the number of participants", ErrInvalidState)
)

// EventService orchestrates event and participant operations.
type EventService struct {
	events repository.EventStore
}

// NewEventService constructs an EventService over an initialised store.
func NewEventService(events repository.EventStore) *EventService {
	return &EventService{events: events}
}

// ─── Events ───────────────────────────────────────────────────────────────────

// CreateEvent validates the event and stores it. An empty id is generated.
func (s *EventService) CreateEvent(ctx context.Context, event model.Event) (*model.Event, error) {
	event.ID = strings.TrimSpace(event.ID)
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}
	ps, err := normalizeParticipants(event.Participants)
	if err != nil {
		return nil, err
	}
	event.Participants = ps
	if len(event.Participants) > event.Capacity {
		return nil, ErrCapacityBelowParticipants
	}

	if err := s.events.Create(ctx, &event); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEventExists
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// GetEvent returns a single event by id.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.Read(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents returns every stored event, unordered.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// UpdateEvent merges the present fields of patch onto the stored event. The
// capacity is checked against the merged participant list before writing.
func (s *EventService) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	if patch.ID != nil && *patch.ID != id {
		return nil, fmt.Errorf("%w: id in body does not match path", ErrValidation)
	}
	if patch.Capacity != nil && *patch.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}
	if patch.Participants != nil {
		ps, err := normalizeParticipants(*patch.Participants)
		if err != nil {
			return nil, err
		}
		patch.Participants = &ps
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(event)
	if event.Capacity < len(event.Participants) {
		return nil, ErrCapacityBelowParticipants
	}

	if err := s.replace(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event and every participant it holds.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ─── Participants ─────────────────────────────────────────────────────────────

// AddParticipant appends p to the event. An empty id is generated.
func (s *EventService) AddParticipant(ctx context.Context, eventID string, p model.Participant) (*model.Participant, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFull() {
		return nil, ErrEventFull
	}
	if event.ParticipantIndex(p.ID) >= 0 {
		return nil, ErrParticipantExists
	}

	event.Participants = append(event.Participants, p)
	if err := s.replace(ctx, event); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetParticipant returns one participant of the event.
func (s *EventService) GetParticipant(ctx context.Context, eventID, participantID string) (*model.Participant, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	i := event.ParticipantIndex(participantID)
	if i < 0 {
		return nil, ErrParticipantNotFound
	}
	return &event.Participants[i], nil
}

// ListParticipants returns the participants in stored order.
func (s *EventService) ListParticipants(ctx context.Context, eventID string) ([]model.Participant, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event.Participants, nil
}

// UpdateParticipant merges the present fields of patch onto the participant,
// keeping its position in the list.
func (s *EventService) UpdateParticipant(ctx context.Context, eventID, participantID string, patch model.ParticipantPatch) (*model.Participant, error) {
	if patch.ID != nil && *patch.ID != participantID {
		return nil, fmt.Errorf("%w: id in body does not match path", ErrValidation)
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	i := event.ParticipantIndex(participantID)
	if i < 0 {
		return nil, ErrParticipantNotFound
	}
	patch.Apply(&event.Participants[i])

	if err := s.replace(ctx, event); err != nil {
		return nil, err
	}
	updated := event.Participants[i]
	return &updated, nil
}

// DeleteParticipant removes the participant; the others keep their order.
func (s *EventService) DeleteParticipant(ctx context.Context, eventID, participantID string) error {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	i := event.ParticipantIndex(participantID)
	if i < 0 {
		return ErrParticipantNotFound
	}
	event.Participants = append(event.Participants[:i], event.Participants[i+1:]...)
	return s.replace(ctx, event)
}

// replace writes the whole event back. The event may have been deleted
// between the read and this write.
func (s *EventService) replace(ctx context.Context, event *model.Event) error {
	if err := s.events.Replace(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("replace event: %w", err)
	}
	return nil
}

// normalizeParticipants returns a copy of ps with trimmed ids, rejecting
// empty ids and ids that collide once trimmed.
func normalizeParticipants(ps []model.Participant) ([]model.Participant, error) {
	out := make([]model.Participant, len(ps))
	seen := make(map[string]struct{}, len(ps))
	for i, p := range ps {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: participant id is required", ErrValidation)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant id %q", ErrValidation, p.ID)
		}
		seen[p.ID] = struct{}{}
		out[i] = p
	}
	return out, nil
}
