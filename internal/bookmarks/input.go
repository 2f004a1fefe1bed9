package bookmarks

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
)

// CreateBookmarkInput is the submitted form for a new bookmark.
type CreateBookmarkInput struct {
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	TagString   string `json:"tag_string" yaml:"tags"`
	Unread      bool   `json:"unread" yaml:"unread"`
	Shared      bool   `json:"shared" yaml:"shared"`
	// AutoClose is a presentation hint (close the bookmarklet window after save).
	AutoClose bool `json:"auto_close" yaml:"-"`
}

// Validate checks the fields the engine depends on.
func (in CreateBookmarkInput) Validate() error {
	return validateURL(in.URL)
}

// UpdateBookmarkInput replaces every editable field of an existing bookmark.
type UpdateBookmarkInput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TagString   string `json:"tag_string"`
	Unread      bool   `json:"unread"`
	Shared      bool   `json:"shared"`
}

// Validate checks the fields the engine depends on.
func (in UpdateBookmarkInput) Validate() error {
	return validateURL(in.URL)
}

func validateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &domain.ValidationError{Field: "url", Reason: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &domain.ValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}
	return nil
}

// MaxPageSize bounds the page size an owner can save.
const MaxPageSize = 500

// ProfileInput replaces the editable preferences of the actor's profile.
// A zero PageSize falls back to the server default.
type ProfileInput struct {
	EnableSharing       bool `json:"enable_sharing"`
	EnablePublicSharing bool `json:"enable_public_sharing"`
	PageSize            int  `json:"page_size"`
}

// Validate checks the page size range.
func (in ProfileInput) Validate() error {
	if in.PageSize < 0 || in.PageSize > MaxPageSize {
		return &domain.ValidationError{Field: "page_size", Reason: fmt.Sprintf("must be between 0 and %d", MaxPageSize)}
	}
	return nil
}
