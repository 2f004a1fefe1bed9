package redis

import "strconv"

const (
	// KeyPrefixBookmark is the prefix for bookmark keys
	KeyPrefixBookmark = "linkshelf:bookmark:"
	// KeyPrefixOwner is the prefix for the per-owner bookmark ID sets
	KeyPrefixOwner = "linkshelf:owner:"
	// KeyPrefixProfile is the prefix for profile keys
	KeyPrefixProfile = "linkshelf:profile:"
	// KeyAllBookmarks is the key for the set of all bookmark IDs
	KeyAllBookmarks = "linkshelf:bookmarks:all"
	// KeySharedBookmarks is the key for the set of shared bookmark IDs
	KeySharedBookmarks = "linkshelf:bookmarks:shared"
	// KeyBookmarkSeq is the ID sequence counter
	KeyBookmarkSeq = "linkshelf:bookmarks:seq"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id int64) string {
	return KeyPrefixBookmark + strconv.FormatInt(id, 10)
}

// OwnerBookmarksKey returns the Redis key for the set of an owner's bookmark IDs
func OwnerBookmarksKey(owner string) string {
	return KeyPrefixOwner + owner + ":bookmarks"
}

// ProfileKey returns the Redis key for an owner's profile
func ProfileKey(owner string) string {
	return KeyPrefixProfile + owner
}

// AllBookmarksKey returns the Redis key for the set of all bookmarks
func AllBookmarksKey() string {
	return KeyAllBookmarks
}

// SharedBookmarksKey returns the Redis key for the set of shared bookmarks
func SharedBookmarksKey() string {
	return KeySharedBookmarks
}
