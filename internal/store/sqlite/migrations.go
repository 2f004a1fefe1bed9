package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range migrationStatements() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration statement: %w", err)
			}
		}
		return nil
	})
}

func migrationStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			archived INTEGER NOT NULL DEFAULT 0,
			unread INTEGER NOT NULL DEFAULT 0,
			shared INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			modified_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_owner ON bookmarks(owner, archived)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_shared ON bookmarks(shared)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS bookmark_tags (
			bookmark_id INTEGER NOT NULL REFERENCES bookmarks(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (bookmark_id, tag_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmark_tags_tag ON bookmark_tags(tag_id)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			owner TEXT PRIMARY KEY,
			enable_sharing INTEGER NOT NULL,
			enable_public_sharing INTEGER NOT NULL,
			page_size INTEGER NOT NULL
		)`,
	}
}
