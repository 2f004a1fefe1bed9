package domain

import "strings"

// Matches reports whether the bookmark satisfies the tag, flag and text parts of the
// filter. Scope checks are the caller's job.
func (f Filter) Matches(b *Bookmark) bool {
	if b == nil {
		return false
	}
	if f.UntaggedOnly && len(b.Tags) > 0 {
		return false
	}
	if f.UnreadOnly && !b.Unread {
		return false
	}
	for _, name := range f.Tags {
		if !b.HasTag(name) {
			return false
		}
	}
	for _, name := range f.ExcludedTags {
		if b.HasTag(name) {
			return false
		}
	}
	if len(f.Terms) == 0 {
		return true
	}

	haystack := strings.ToLower(b.Title + " " + b.Description + " " + b.URL)
	for _, term := range f.Terms {
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Less orders bookmarks newest first, with ID descending as a stable tie-break.
func Less(a, b *Bookmark) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
