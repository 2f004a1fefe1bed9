package domain

import (
	"slices"
	"time"
)

// DefaultPageSize is used when neither the caller nor the owner's profile sets a page size.
const DefaultPageSize = 30

// Bookmark is a saved link owned by exactly one actor.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on create and never reused.
	ID int64 `json:"id"`

	// Owner is the opaque actor reference of the user who saved the link.
	Owner string `json:"owner"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Tags is an ordered set of canonical (lowercase, trimmed) tag names.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Lifecycle flags
	// ─────────────────────────────

	Archived bool `json:"archived"`
	Unread   bool `json:"unread"`
	Shared   bool `json:"shared"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Clone returns a deep copy so stores never hand out their own state.
func (b *Bookmark) Clone() *Bookmark {
	if b == nil {
		return nil
	}
	c := *b
	c.Tags = slices.Clone(b.Tags)
	return &c
}

// HasTag reports whether the canonical tag name is on the bookmark.
func (b *Bookmark) HasTag(name string) bool {
	return slices.Contains(b.Tags, name)
}

// Profile holds the per-owner preferences the engine cares about.
type Profile struct {
	Owner               string `json:"owner"`
	EnableSharing       bool   `json:"enable_sharing"`
	EnablePublicSharing bool   `json:"enable_public_sharing"`
	PageSize            int    `json:"page_size"`
}

// DefaultProfile is what stores return for owners that never saved preferences.
func DefaultProfile(owner string) *Profile {
	return &Profile{
		Owner:         owner,
		EnableSharing: true,
		PageSize:      DefaultPageSize,
	}
}

// Scope is the visibility boundary a query is evaluated under.
type Scope int

const (
	// ScopeOwner restricts results to the actor's own bookmarks.
	ScopeOwner Scope = iota
	// ScopeShared restricts results to bookmarks their owners chose to share.
	ScopeShared
)

func (s Scope) String() string {
	switch s {
	case ScopeOwner:
		return "owner"
	case ScopeShared:
		return "shared"
	default:
		return "unknown"
	}
}
