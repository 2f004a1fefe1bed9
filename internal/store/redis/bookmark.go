package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Get retrieves a bookmark from Redis by ID
func (s *Store) Get(ctx context.Context, id int64) (*domain.Bookmark, error) {
	return getBookmark(ctx, s.client, id)
}

// List retrieves the bookmarks inside sel. The narrowest ID set is read with a
// single MGET; IDs whose value has vanished are skipped.
func (s *Store) List(ctx context.Context, sel domain.Selection) ([]*domain.Bookmark, error) {
	setKey := AllBookmarksKey()
	switch {
	case sel.Owner != "":
		setKey = OwnerBookmarksKey(sel.Owner)
	case sel.SharedOnly:
		setKey = SharedBookmarksKey()
	}

	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = KeyPrefixBookmark + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
		}
		if sel.Includes(&b) {
			bookmarks = append(bookmarks, &b)
		}
	}
	return bookmarks, nil
}

// Create assigns the next sequence ID and stores the bookmark with its index entries
func (s *Store) Create(ctx context.Context, b *domain.Bookmark) error {
	id, err := s.client.Incr(ctx, KeyBookmarkSeq).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate bookmark ID: %w", err)
	}
	b.ID = id

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, BookmarkKey(id), data, 0)
		pipe.SAdd(ctx, AllBookmarksKey(), id)
		pipe.SAdd(ctx, OwnerBookmarksKey(b.Owner), id)
		if b.Shared {
			pipe.SAdd(ctx, SharedBookmarksKey(), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// Save replaces an existing bookmark. The value and its index entries change in
// one MULTI, guarded by WATCH on the bookmark key.
func (s *Store) Save(ctx context.Context, b *domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	key := BookmarkKey(b.ID)

	return s.watch(ctx, func(tx *redis.Tx) error {
		old, err := getBookmark(ctx, tx, b.ID)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if old.Owner != b.Owner {
				pipe.SRem(ctx, OwnerBookmarksKey(old.Owner), b.ID)
				pipe.SAdd(ctx, OwnerBookmarksKey(b.Owner), b.ID)
			}
			if b.Shared {
				pipe.SAdd(ctx, SharedBookmarksKey(), b.ID)
			} else {
				pipe.SRem(ctx, SharedBookmarksKey(), b.ID)
			}
			return nil
		})
		return err
	}, key)
}

// Delete removes a bookmark and its index entries
func (s *Store) Delete(ctx context.Context, id int64) error {
	key := BookmarkKey(id)

	return s.watch(ctx, func(tx *redis.Tx) error {
		old, err := getBookmark(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SRem(ctx, AllBookmarksKey(), id)
			pipe.SRem(ctx, OwnerBookmarksKey(old.Owner), id)
			pipe.SRem(ctx, SharedBookmarksKey(), id)
			return nil
		})
		return err
	}, key)
}

// getter is the read side shared by the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getBookmark(ctx context.Context, c getter, id int64) (*domain.Bookmark, error) {
	data, err := c.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &b, nil
}
