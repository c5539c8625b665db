// Package model defines the core domain types for the events API.
package model

// Event is a single stored document. Participants are embedded and have no
// lifecycle of their own.
type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Date         string        `json:"date"`
	Location     string        `json:"location"`
	Capacity     int           `json:"capacity"`
	Participants []Participant `json:"participants"`
}

// Remaining returns the number of free places.
func (e *Event) Remaining() int {
	return e.Capacity - len(e.Participants)
}

// IsFull returns true when no places remain.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.Capacity
}

// ParticipantIndex returns the position of the participant with the given id,
// or -1 when it is not present.
func (e *Event) ParticipantIndex(id string) int {
	for i := range e.Participants {
		if e.Participants[i].ID == id {
			return i
		}
	}
	return -1
}

// Participant is a sub-record embedded in exactly one Event.
type Participant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

// EventPatch is the payload for a partial event update. A nil field is left
// untouched; participants, when present, replace the whole sequence.
type EventPatch struct {
	ID           *string        `json:"id,omitempty"`
	Name         *string        `json:"name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Date         *string        `json:"date,omitempty"`
	Location     *string        `json:"location,omitempty"`
	Capacity     *int           `json:"capacity,omitempty"`
	Participants *[]Participant `json:"participants,omitempty"`
}

// Apply merges the present fields of p onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.Participants != nil {
		e.Participants = append([]Participant{}, (*p.Participants)...)
	}
}

// ParticipantPatch is the payload for a partial participant update.
type ParticipantPatch struct {
	ID           *string `json:"id,omitempty"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	RegisteredAt *string `json:"registered_at,omitempty"`
}

// Apply merges the present fields of p onto pt.
func (p ParticipantPatch) Apply(pt *Participant) {
	if p.Name != nil {
		pt.Name = *p.Name
	}
	if p.Email != nil {
		pt.Email = *p.Email
	}
	if p.RegisteredAt != nil {
		pt.RegisteredAt = *p.RegisteredAt
	}
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
