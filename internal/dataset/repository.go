package dataset

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("dataset not found")

type Repository interface {
	Create(ctx context.Context, d *Dataset) error
	GetByID(ctx context.Context, id string) (*Dataset, error)
	Delete(ctx context.Context, id string) error
	// Touch records that the dataset was used at t.
	Touch(ctx context.Context, id string, t time.Time) error
	// DeleteIdleSince removes every dataset last used before cutoff and
	// returns how many went.
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

// InMemoryRepository keeps datasets for the lifetime of the process.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Dataset
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{store: make(map[string]*Dataset)}
}

func (r *InMemoryRepository) Create(ctx context.Context, d *Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *d
	r.store[d.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryRepository) Touch(ctx context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.store[id]
	if !ok {
		return ErrNotFound
	}
	d.AccessedAt = t
	return nil
}

func (r *InMemoryRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, d := range r.store {
		if d.AccessedAt.Before(cutoff) {
			delete(r.store, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored datasets.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
