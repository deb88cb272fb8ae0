package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/diarynotes/internal/telemetry/metrics"
	"github.com/2beens/diarynotes/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=notes_test

// Repo is a notes storage backend. Every mutation is a single atomic storage operation.
// Ids that cannot exist in the backend are reported as ErrNoteNotFound.
type Repo interface {
	List(ctx context.Context) ([]*Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	Add(ctx context.Context, note *Note) (*Note, error)
	Update(ctx context.Context, id string, input NoteInput, updatedAt time.Time) (*Note, error)
	Delete(ctx context.Context, id string) (*Note, error)
}

// Cache holds single notes by id. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, id string) (*Note, bool, error)
	Set(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo    Repo
	cache   Cache
	metrics *metrics.Manager
	now     func() time.Time

	// cacheGen is bumped by every update and delete. Writes that were
	// prepared against an older generation are dropped.
	cacheMu  sync.Mutex
	cacheGen uint64
}

type ServiceOption func(*Service)

func WithCache(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repo, metricsManager *metrics.Manager, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		metrics: metricsManager,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) (_ []*Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notes.list")
	defer func() { tracing.EndSpan(span, err) }()

	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	s.countOp("list")

	return notes, nil
}

func (s *Service) Get(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notes.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("note.id", id))

	if note, ok := s.cacheGet(ctx, id); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.countOp("get")
		return note, nil
	}

	gen := s.cacheGeneration()
	note, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	s.cacheFill(ctx, gen, note)
	s.countOp("get")

	return note, nil
}

// Create checks the input before touching storage; both timestamps are set to now.
func (s *Service) Create(ctx context.Context, input NoteInput) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notes.create")
	defer func() { tracing.EndSpan(span, err) }()

	input, err = Sanitize(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	note, err := s.repo.Add(ctx, &Note{
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	span.SetAttributes(attribute.String("note.id", note.ID))

	s.cacheSet(ctx, note)
	s.countOp("create")

	return note, nil
}

// Update replaces title and content and refreshes updated_at.
func (s *Service) Update(ctx context.Context, id string, input NoteInput) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notes.update")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("note.id", id))

	input, err = Sanitize(input)
	if err != nil {
		return nil, err
	}

	gen := s.cacheGeneration()
	note, err := s.repo.Update(ctx, id, input, s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.cacheInvalidate(ctx, id)
		}
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}

	s.cacheReplace(ctx, gen, note)
	s.countOp("update")

	return note, nil
}

// Delete removes the note and returns its last stored representation.
func (s *Service) Delete(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.notes.delete")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("note.id", id))

	note, err := s.repo.Delete(ctx, id)
	// evicted regardless of the outcome
	s.cacheInvalidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete note %s: %w", id, err)
	}
	s.countOp("delete")

	return note, nil
}

func (s *Service) countOp(op string) {
	if s.metrics != nil {
		s.metrics.CounterNoteOps.WithLabelValues(op).Inc()
	}
}

func (s *Service) countCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.CounterCacheLookups.WithLabelValues(result).Inc()
	}
}

func (s *Service) cacheGet(ctx context.Context, id string) (*Note, bool) {
	if s.cache == nil {
		return nil, false
	}
	note, found, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warnf("notes cache get [%s]: %s", id, err)
		s.countCacheLookup("error")
		return nil, false
	}
	if !found {
		s.countCacheLookup("miss")
		return nil, false
	}
	s.countCacheLookup("hit")
	return note, true
}

func (s *Service) cacheSet(ctx context.Context, note *Note) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, note); err != nil {
		log.Warnf("notes cache set [%s]: %s", note.ID, err)
	}
}

func (s *Service) cacheDelete(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Warnf("notes cache delete [%s]: %s", id, err)
	}
}

func (s *Service) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.cacheGen
}

// cacheFill stores a note read from storage, unless a mutation ran since gen was taken.
func (s *Service) cacheFill(ctx context.Context, gen uint64, note *Note) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheGen != gen {
		return
	}
	s.cacheSet(ctx, note)
}

// cacheReplace stores an updated note. When another mutation raced it, the
// entry is dropped instead since the stored order is unknown.
func (s *Service) cacheReplace(ctx context.Context, gen uint64, note *Note) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheGen != gen {
		s.cacheGen++
		s.cacheDelete(ctx, note.ID)
		return
	}
	s.cacheGen++
	s.cacheSet(ctx, note)
}

func (s *Service) cacheInvalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	s.cacheDelete(ctx, id)
}
