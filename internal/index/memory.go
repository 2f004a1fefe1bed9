package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
)

// MemoryIndex is an in-process domain.Store. It is the default backend and the one
// the tests run against.
type MemoryIndex struct {
	mu        sync.RWMutex
	bookmarks map[int64]*domain.Bookmark // ID -> Bookmark
	profiles  map[string]*domain.Profile // Owner -> Profile
	nextID    int64
}

// NewMemoryIndex creates an empty memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		bookmarks: make(map[int64]*domain.Bookmark),
		profiles:  make(map[string]*domain.Profile),
	}
}

var _ domain.Store = (*MemoryIndex)(nil)

// Get retrieves a bookmark by ID
func (idx *MemoryIndex) Get(_ context.Context, id int64) (*domain.Bookmark, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	b, ok := idx.bookmarks[id]
	if !ok {
		return nil, fmt.Errorf("get bookmark %d: %w", id, domain.ErrNotFound)
	}
	return b.Clone(), nil
}

// List returns copies of every bookmark inside the selection, in no particular order
func (idx *MemoryIndex) List(_ context.Context, sel domain.Selection) ([]*domain.Bookmark, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Bookmark, 0, len(idx.bookmarks))
	for _, b := range idx.bookmarks {
		if sel.Includes(b) {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

// Create stores a new bookmark and assigns its ID
func (idx *MemoryIndex) Create(_ context.Context, b *domain.Bookmark) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.nextID++
	b.ID = idx.nextID
	idx.bookmarks[b.ID] = b.Clone()
	return nil
}

// Save replaces an existing bookmark
func (idx *MemoryIndex) Save(_ context.Context, b *domain.Bookmark) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.bookmarks[b.ID]; !ok {
		return fmt.Errorf("save bookmark %d: %w", b.ID, domain.ErrNotFound)
	}
	idx.bookmarks[b.ID] = b.Clone()
	return nil
}

// Delete removes a bookmark from the index
func (idx *MemoryIndex) Delete(_ context.Context, id int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.bookmarks[id]; !ok {
		return fmt.Errorf("delete bookmark %d: %w", id, domain.ErrNotFound)
	}
	delete(idx.bookmarks, id)
	return nil
}

// Profile returns the saved profile or the default one
func (idx *MemoryIndex) Profile(_ context.Context, owner string) (*domain.Profile, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if p, ok := idx.profiles[owner]; ok {
		c := *p
		return &c, nil
	}
	return domain.DefaultProfile(owner), nil
}

// SaveProfile adds or updates a profile
func (idx *MemoryIndex) SaveProfile(_ context.Context, p *domain.Profile) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	c := *p
	idx.profiles[p.Owner] = &c
	return nil
}

// Ping always succeeds
func (idx *MemoryIndex) Ping(context.Context) error { return nil }

// Count returns the number of bookmarks in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.bookmarks)
}
