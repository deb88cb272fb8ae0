package notes_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/diarynotes/internal/notes"
	"github.com/2beens/diarynotes/internal/telemetry/metrics"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	metricsManager := metrics.NewTestManager()
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)

	svc := notes.NewService(repoMock, metricsManager, notes.WithCache(cacheMock), notes.WithClock(fixedClock(now)))

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notes.Note) (*notes.Note, error) {
			assert.Equal(t, "Trip", n.Title)
			assert.Equal(t, "went to the sea", n.Content)
			assert.Equal(t, now, n.CreatedAt)
			assert.Equal(t, now, n.UpdatedAt)
			added := *n
			added.ID = "n1"
			return &added, nil
		}).Times(1)
	cacheMock.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	note, err := svc.Create(context.Background(), notes.NoteInput{Title: "  Trip ", Content: "went to the sea\n"})
	require.NoError(t, err)
	assert.Equal(t, "n1", note.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterNoteOps.WithLabelValues("create")))
}

func TestService_Create_InvalidNeverReachesStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	svc := notes.NewService(repoMock, nil)

	repoMock.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), notes.NoteInput{Title: "  ", Content: "x"})
	var vErr *notes.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Title is required", vErr.Errors[0].Msg)
}

func TestService_Get_CacheHitSkipsRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	metricsManager := metrics.NewTestManager()
	svc := notes.NewService(repoMock, metricsManager, notes.WithCache(cacheMock))

	cached := &notes.Note{ID: "n1", Title: "t", Content: "c"}
	cacheMock.EXPECT().Get(gomock.Any(), "n1").Return(cached, true, nil).Times(1)
	repoMock.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

	note, err := svc.Get(context.Background(), "n1")
	require.NoError(t, err)
	assert.Same(t, cached, note)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCacheLookups.WithLabelValues("hit")))
}

func TestService_Get_CacheMissAndErrorFallBackToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	metricsManager := metrics.NewTestManager()
	svc := notes.NewService(repoMock, metricsManager, notes.WithCache(cacheMock))

	stored := &notes.Note{ID: "n1", Title: "t", Content: "c"}
	gomock.InOrder(
		cacheMock.EXPECT().Get(gomock.Any(), "n1").Return(nil, false, nil),
		repoMock.EXPECT().Get(gomock.Any(), "n1").Return(stored, nil),
		cacheMock.EXPECT().Set(gomock.Any(), stored).Return(errors.New("redis down")),
		cacheMock.EXPECT().Get(gomock.Any(), "n1").Return(nil, false, errors.New("redis down")),
		repoMock.EXPECT().Get(gomock.Any(), "n1").Return(stored, nil),
		cacheMock.EXPECT().Set(gomock.Any(), stored).Return(nil),
	)

	for i := 0; i < 2; i++ {
		note, err := svc.Get(context.Background(), "n1")
		require.NoError(t, err)
		assert.Equal(t, stored, note)
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCacheLookups.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCacheLookups.WithLabelValues("error")))
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	svc := notes.NewService(repoMock, nil)

	repoMock.EXPECT().Get(gomock.Any(), "missing").Return(nil, notes.ErrNoteNotFound)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, notes.ErrNoteNotFound)
}

func TestService_Update_RefreshesUpdatedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc := notes.NewService(repoMock, metrics.NewTestManager(), notes.WithCache(cacheMock), notes.WithClock(fixedClock(now)))

	updated := &notes.Note{ID: "n1", Title: "new", Content: "body", CreatedAt: now.Add(-time.Hour), UpdatedAt: now}
	repoMock.EXPECT().
		Update(gomock.Any(), "n1", notes.NoteInput{Title: "new", Content: "body"}, now).
		Return(updated, nil)
	cacheMock.EXPECT().Set(gomock.Any(), updated).Return(nil)

	note, err := svc.Update(context.Background(), "n1", notes.NoteInput{Title: " new", Content: "body "})
	require.NoError(t, err)
	assert.Equal(t, now, note.UpdatedAt)
	assert.True(t, !note.CreatedAt.After(note.UpdatedAt))
}

func TestService_Update_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	svc := notes.NewService(repoMock, nil, notes.WithCache(cacheMock))

	// invalid input is rejected before storage, also for unknown ids
	_, err := svc.Update(context.Background(), "missing", notes.NoteInput{})
	var vErr *notes.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Errors, 2)

	repoMock.EXPECT().Update(gomock.Any(), "missing", gomock.Any(), gomock.Any()).Return(nil, notes.ErrNoteNotFound)
	cacheMock.EXPECT().Delete(gomock.Any(), "missing").Return(nil)
	_, err = svc.Update(context.Background(), "missing", notes.NoteInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, notes.ErrNoteNotFound)

	repoMock.EXPECT().Update(gomock.Any(), "n2", gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	_, err = svc.Update(context.Background(), "n2", notes.NoteInput{Title: "t", Content: "c"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, notes.ErrNoteNotFound)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	cacheMock := NewMockCache(ctrl)
	metricsManager := metrics.NewTestManager()
	svc := notes.NewService(repoMock, metricsManager, notes.WithCache(cacheMock))

	deleted := &notes.Note{ID: "n1", Title: "t", Content: "c"}
	repoMock.EXPECT().Delete(gomock.Any(), "n1").Return(deleted, nil)
	cacheMock.EXPECT().Delete(gomock.Any(), "n1").Return(nil)

	note, err := svc.Delete(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, deleted, note)

	repoMock.EXPECT().Delete(gomock.Any(), "n1").Return(nil, notes.ErrNoteNotFound)
	cacheMock.EXPECT().Delete(gomock.Any(), "n1").Return(errors.New("redis down"))

	_, err = svc.Delete(context.Background(), "n1")
	assert.ErrorIs(t, err, notes.ErrNoteNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterNoteOps.WithLabelValues("delete")))
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockRepo(ctrl)
	svc := notes.NewService(repoMock, nil)

	repoMock.EXPECT().List(gomock.Any()).Return([]*notes.Note{{ID: "a"}, {ID: "b"}}, nil)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	repoMock.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
	_, err = svc.List(context.Background())
	assert.Error(t, err)
}

type mapCache struct {
	mu    sync.Mutex
	notes map[string]notes.Note
}

func newMapCache() *mapCache {
	return &mapCache{notes: map[string]notes.Note{}}
}

func (c *mapCache) Get(_ context.Context, id string) (*notes.Note, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notes[id]
	if !ok {
		return nil, false, nil
	}
	return &n, true, nil
}

func (c *mapCache) Set(_ context.Context, note *notes.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes[note.ID] = *note
	return nil
}

func (c *mapCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.notes, id)
	return nil
}

// pausingRepo holds Get after the read, until release is closed.
type pausingRepo struct {
	*notes.MemoryRepo
	read    chan struct{}
	release chan struct{}
}

func (r *pausingRepo) Get(ctx context.Context, id string) (*notes.Note, error) {
	note, err := r.MemoryRepo.Get(ctx, id)
	close(r.read)
	<-r.release
	return note, err
}

func TestService_Get_SlowReadDoesNotRefillAfterMutation(t *testing.T) {
	for name, mutate := range map[string]func(svc *notes.Service, id string) error{
		"delete": func(svc *notes.Service, id string) error {
			_, err := svc.Delete(context.Background(), id)
			return err
		},
		"update": func(svc *notes.Service, id string) error {
			_, err := svc.Update(context.Background(), id, notes.NoteInput{Title: "new", Content: "new"})
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			memRepo := notes.NewMemoryRepo()
			stored, err := memRepo.Add(context.Background(), &notes.Note{Title: "old", Content: "old"})
			require.NoError(t, err)

			cache := newMapCache()
			repo := &pausingRepo{MemoryRepo: memRepo, read: make(chan struct{}), release: make(chan struct{})}
			svc := notes.NewService(repo, nil, notes.WithCache(cache))

			done := make(chan error)
			go func() {
				_, err := svc.Get(context.Background(), stored.ID)
				done <- err
			}()
			<-repo.read

			require.NoError(t, mutate(svc, stored.ID))
			close(repo.release)
			require.NoError(t, <-done)

			cached, found, err := cache.Get(context.Background(), stored.ID)
			require.NoError(t, err)
			if found {
				assert.Equal(t, "new", cached.Title)
			}
			if name == "delete" {
				assert.False(t, found)
				_, err = notes.NewService(memRepo, nil, notes.WithCache(cache)).Get(context.Background(), stored.ID)
				assert.ErrorIs(t, err, notes.ErrNoteNotFound)
			}
		})
	}
}
