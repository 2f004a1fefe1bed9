package domain

import "context"

// Selection is the coarse part of a query a store can push down.
// The engine still applies the full predicate to whatever comes back.
type Selection struct {
	Owner      string // empty = any owner
	SharedOnly bool
	Archived   *bool // nil = both
}

// Includes reports whether b falls inside the selection.
func (s Selection) Includes(b *Bookmark) bool {
	if s.Owner != "" && b.Owner != s.Owner {
		return false
	}
	if s.SharedOnly && !b.Shared {
		return false
	}
	if s.Archived != nil && b.Archived != *s.Archived {
		return false
	}
	return true
}

// Store is the transactional record store behind the engine.
// Implementations return copies and report missing records as ErrNotFound.
type Store interface {
	Get(ctx context.Context, id int64) (*Bookmark, error)
	List(ctx context.Context, sel Selection) ([]*Bookmark, error)
	// Create assigns b.ID.
	Create(ctx context.Context, b *Bookmark) error
	// Save replaces an existing record atomically.
	Save(ctx context.Context, b *Bookmark) error
	Delete(ctx context.Context, id int64) error

	// Profile returns DefaultProfile(owner) when nothing was saved.
	Profile(ctx context.Context, owner string) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error

	Ping(ctx context.Context) error
}

// TagPruner is implemented by stores that keep a tag vocabulary apart from bookmarks.
type TagPruner interface {
	PruneOrphanTags(ctx context.Context) (int64, error)
}
