package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/event-participants/internal/model"
)

// MemoryStore is a process-local EventStore. Documents are held encoded so
// callers never share state with the store, matching a remote document DB.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Create(ctx context.Context, event *model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[event.ID]; ok {
		return ErrAlreadyExists
	}
	s.docs[event.ID] = doc
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, id string) (*model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeEvent(doc)
}

func (s *MemoryStore) Replace(ctx context.Context, event *model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := encodeEvent(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[event.ID]; !ok {
		return ErrNotFound
	}
	s.docs[event.ID] = doc
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Scan(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]model.Event, 0, len(s.docs))
	for _, doc := range s.docs {
		e, err := decodeEvent(doc)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, nil
}
