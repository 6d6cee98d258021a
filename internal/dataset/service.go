package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
	ttl  time.Duration
}

// ServiceOption tunes a Service.
type ServiceOption func(*Service)

// WithTTL expires datasets that have not been uploaded or read for ttl.
// Zero keeps them until they are deleted.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload parses a CSV transaction table, stores it and returns it with its
// validation report. A non-binary table is stored all the same.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader) (*Dataset, Validation, error) {
	if err := CheckFilename(name); err != nil {
		return nil, Validation{}, err
	}

	items, rows, err := ParseCSV(r)
	if err != nil {
		return nil, Validation{}, fmt.Errorf("parse %s: %w", name, err)
	}

	if _, err := s.Purge(ctx); err != nil {
		slog.WarnContext(ctx, "purge idle datasets", "error", err)
	}

	now := s.now().UTC()
	d := &Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Items:      items,
		Rows:       rows,
		CreatedAt:  now,
		AccessedAt: now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, Validation{}, err
	}

	v := Validate(d)
	slog.InfoContext(ctx, "dataset uploaded",
		"dataset_id", d.ID,
		"name", name,
		"items", len(items),
		"transactions", len(rows),
		"binary", v.Binary,
	)
	return d, v, nil
}

// GetByID loads a dataset and, when datasets expire, marks it as used.
func (s *Service) GetByID(ctx context.Context, id string) (*Dataset, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.ttl <= 0 {
		return d, nil
	}
	if d.AccessedAt.Before(s.now().Add(-s.ttl)) {
		return nil, ErrNotFound
	}
	now := s.now().UTC()
	if err := s.repo.Touch(ctx, id, now); err != nil {
		return nil, err
	}
	d.AccessedAt = now
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "dataset deleted", "dataset_id", id)
	return nil
}

// Purge removes datasets idle for longer than the TTL.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteIdleSince(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.InfoContext(ctx, "idle datasets purged", "count", n, "ttl", s.ttl)
	}
	return n, nil
}

// RunJanitor calls Purge every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Purge(ctx); err != nil {
				slog.WarnContext(ctx, "purge idle datasets", "error", err)
			}
		}
	}
}
