package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"

	_ "modernc.org/sqlite"
)

// Options configures the database file.
type Options struct {
	Path        string
	BusyTimeout time.Duration
}

// Store is a domain.Store on a local SQLite file. Tags live in their own table
// so the vocabulary can be pruned independently of bookmarks.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

var (
	_ domain.Store     = (*Store)(nil)
	_ domain.TagPruner = (*Store)(nil)
)

// Open creates the parent directory if needed, opens the database with WAL
// journaling and runs the migrations.
func Open(ctx context.Context, opts Options, log logger.Logger) (*Store, error) {
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}

	dir := filepath.Dir(opts.Path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, logger: log}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("sqlite store ready",
		logger.String("path", opts.Path),
		logger.Duration("busy_timeout", opts.BusyTimeout))
	return s, nil
}

// dsn sets the pragmas on every pooled connection, not just the first one.
func dsn(opts Options) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + opts.Path + "?" + q.Encode()
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Profile returns the saved profile or the default one
func (s *Store) Profile(ctx context.Context, owner string) (*domain.Profile, error) {
	p := domain.Profile{Owner: owner}
	err := s.db.QueryRowContext(ctx,
		`SELECT enable_sharing, enable_public_sharing, page_size FROM profiles WHERE owner = ?`, owner,
	).Scan(&p.EnableSharing, &p.EnablePublicSharing, &p.PageSize)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultProfile(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// SaveProfile adds or updates a profile
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (owner, enable_sharing, enable_public_sharing, page_size)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			enable_sharing = excluded.enable_sharing,
			enable_public_sharing = excluded.enable_public_sharing,
			page_size = excluded.page_size`,
		p.Owner, p.EnableSharing, p.EnablePublicSharing, p.PageSize)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// PruneOrphanTags deletes tags no bookmark references anymore
func (s *Store) PruneOrphanTags(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id NOT IN (SELECT DISTINCT tag_id FROM bookmark_tags)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tags: %w", err)
	}
	return res.RowsAffected()
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.logger.Warn("failed to rollback transaction", logger.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
