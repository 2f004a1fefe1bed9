package bookmarks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/index"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *index.MemoryIndex
	service *Service
	engine  *Engine
	bulk    *Coordinator
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: index.NewMemoryIndex(), now: baseTime}
	log := logger.Nop()
	f.service = NewService(f.store, log, WithClock(func() time.Time { return f.now }))
	f.engine = NewEngine(f.store, log)
	f.bulk = NewCoordinator(f.service, log)
	return f
}

// seed stores b as-is, created age minutes before baseTime.
func (f *fixture) seed(t *testing.T, b domain.Bookmark, age int) *domain.Bookmark {
	t.Helper()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = baseTime.Add(-time.Duration(age) * time.Minute)
		b.ModifiedAt = b.CreatedAt
	}
	if b.URL == "" {
		b.URL = "https://example.com"
	}
	if err := f.store.Create(context.Background(), &b); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &b
}

func (f *fixture) get(t *testing.T, id int64) *domain.Bookmark {
	t.Helper()
	b, err := f.store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %d: %v", id, err)
	}
	return b
}

func (f *fixture) profile(t *testing.T, p *domain.Profile) {
	t.Helper()
	if err := f.store.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("save profile %s: %v", p.Owner, err)
	}
}

func ids(list []*domain.Bookmark) []int64 {
	out := make([]int64, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

// failingStore fails Save for one bookmark ID.
type failingStore struct {
	*index.MemoryIndex
	failID int64
}

func (s *failingStore) Save(ctx context.Context, b *domain.Bookmark) error {
	if b.ID == s.failID {
		return errors.New("disk full")
	}
	return s.MemoryIndex.Save(ctx, b)
}
