package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo keeps notes in process memory, in insertion order.
// Used by the "memory" storage backend and as a test double.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	notes map[string]Note

	// set to make every call fail, e.g. to simulate a storage outage
	Err error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		notes: make(map[string]Note),
	}
}

func (r *MemoryRepo) List(_ context.Context) ([]*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	notes := make([]*Note, 0, len(r.order))
	for _, id := range r.order {
		n := r.notes[id]
		notes = append(notes, &n)
	}
	return notes, nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &n, nil
}

func (r *MemoryRepo) Add(_ context.Context, note *Note) (*Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	n := *note
	n.ID = uuid.NewString()
	r.notes[n.ID] = n
	r.order = append(r.order, n.ID)
	return &n, nil
}

func (r *MemoryRepo) Update(_ context.Context, id string, input NoteInput, updatedAt time.Time) (*Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	n.Title = input.Title
	n.Content = input.Content
	n.UpdatedAt = updatedAt
	r.notes[id] = n
	return &n, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) (*Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	delete(r.notes, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &n, nil
}
