package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/utils"
)

// selectBookmarks yields one row per (bookmark, tag); untagged bookmarks come
// back once with a NULL tag.
const selectBookmarks = `
	SELECT b.id, b.owner, b.url, b.title, b.description,
		b.archived, b.unread, b.shared, b.created_at, b.modified_at, t.name
	FROM bookmarks b
	LEFT JOIN bookmark_tags bt ON bt.bookmark_id = b.id
	LEFT JOIN tags t ON t.id = bt.tag_id`

// Get retrieves a bookmark by ID
func (s *Store) Get(ctx context.Context, id int64) (*domain.Bookmark, error) {
	list, err := s.query(ctx, selectBookmarks+` WHERE b.id = ? ORDER BY bt.position`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	return list[0], nil
}

// List returns every bookmark inside the selection
func (s *Store) List(ctx context.Context, sel domain.Selection) ([]*domain.Bookmark, error) {
	var (
		where []string
		args  []any
	)
	if sel.Owner != "" {
		where = append(where, "b.owner = ?")
		args = append(args, sel.Owner)
	}
	if sel.SharedOnly {
		where = append(where, "b.shared = 1")
	}
	if sel.Archived != nil {
		where = append(where, "b.archived = ?")
		args = append(args, *sel.Archived)
	}

	q := selectBookmarks
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return s.query(ctx, q+" ORDER BY b.id, bt.position", args...)
}

// Create inserts a bookmark with its tags in one transaction and assigns its ID
func (s *Store) Create(ctx context.Context, b *domain.Bookmark) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO bookmarks (owner, url, title, description, archived, unread, shared, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.Owner, b.URL, b.Title, b.Description, b.Archived, b.Unread, b.Shared,
			b.CreatedAt.UnixNano(), b.ModifiedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert bookmark: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read bookmark ID: %w", err)
		}
		if err := setTags(ctx, tx, id, b.Tags); err != nil {
			return err
		}
		b.ID = id
		return nil
	})
}

// Save replaces the row and the tag links of an existing bookmark in one transaction
func (s *Store) Save(ctx context.Context, b *domain.Bookmark) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE bookmarks SET owner = ?, url = ?, title = ?, description = ?,
				archived = ?, unread = ?, shared = ?, created_at = ?, modified_at = ?
			WHERE id = ?`,
			b.Owner, b.URL, b.Title, b.Description, b.Archived, b.Unread, b.Shared,
			b.CreatedAt.UnixNano(), b.ModifiedAt.UnixNano(), b.ID)
		if err != nil {
			return fmt.Errorf("failed to update bookmark: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("save bookmark %d: %w", b.ID, domain.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmark_tags WHERE bookmark_id = ?`, b.ID); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		return setTags(ctx, tx, b.ID, b.Tags)
	})
}

// Delete removes a bookmark; its tag links go with it
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete bookmark %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func setTags(ctx context.Context, tx *sql.Tx, bookmarkID int64, tags []string) error {
	for pos, name := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookmark_tags (bookmark_id, tag_id, position)
			SELECT ?, id, ? FROM tags WHERE name = ?`, bookmarkID, pos, name); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}

// query folds the joined rows back into bookmarks, keeping the row order.
func (s *Store) query(ctx context.Context, q string, args ...any) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer utils.Close(rows)

	out := make([]*domain.Bookmark, 0)
	var cur *domain.Bookmark
	for rows.Next() {
		var (
			b                 domain.Bookmark
			created, modified int64
			tag               sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Owner, &b.URL, &b.Title, &b.Description,
			&b.Archived, &b.Unread, &b.Shared, &created, &modified, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}

		if cur == nil || cur.ID != b.ID {
			b.CreatedAt = time.Unix(0, created).UTC()
			b.ModifiedAt = time.Unix(0, modified).UTC()
			b.Tags = []string{}
			cur = &b
			out = append(out, cur)
		}
		if tag.Valid {
			cur.Tags = append(cur.Tags, tag.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return out, nil
}
