// Package repository persists event documents. Every implementation stores
// one JSON document per event, keyed and partitioned by the event id.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when a document with the same id is already stored.
var ErrAlreadyExists = errors.New("already exists")

// EventStore is the item-level contract of a document container.
//
// Replace overwrites whatever is stored under the event id; there is no
// precondition tying it to an earlier Read.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	Read(ctx context.Context, id string) (*model.Event, error)
	Replace(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context) ([]model.Event, error)
}

func encodeEvent(event *model.Event) ([]byte, error) {
	if event.Participants == nil {
		event.Participants = []model.Participant{}
	}
	b, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}

func decodeEvent(b []byte) (*model.Event, error) {
	var e model.Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if e.Participants == nil {
		e.Participants = []model.Participant{}
	}
	return &e, nil
}
