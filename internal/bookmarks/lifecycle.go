package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

// Service applies single-bookmark lifecycle operations. Each one is a
// read/mutate/save sequence; atomicity of the save is the store's job.
type Service struct {
	store  domain.Store
	logger logger.Logger
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a lifecycle service on top of store
func NewService(store domain.Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create saves a new bookmark owned by actor.
func (s *Service) Create(ctx context.Context, in CreateBookmarkInput, actor string) (*domain.Bookmark, error) {
	if actor == "" {
		return nil, fmt.Errorf("create bookmark: %w", domain.ErrPermission)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &domain.Bookmark{
		Owner:       actor,
		URL:         strings.TrimSpace(in.URL),
		Title:       in.Title,
		Description: in.Description,
		Tags:        domain.ParseTagString(in.TagString),
		Unread:      in.Unread,
		Shared:      in.Shared,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		logger.Int64("bookmark_id", b.ID),
		logger.String("owner", actor),
		logger.Strings("tags", b.Tags))
	return b, nil
}

// Update replaces the fields and the whole tag set of bookmark id.
// A bookmark owned by someone else yields ErrPermission.
func (s *Service) Update(ctx context.Context, id int64, in UpdateBookmarkInput, actor string) (*domain.Bookmark, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Owner != actor {
		return nil, fmt.Errorf("update bookmark %d: %w", id, domain.ErrPermission)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b.URL = strings.TrimSpace(in.URL)
	b.Title = in.Title
	b.Description = in.Description
	b.Tags = domain.ParseTagString(in.TagString)
	b.Unread = in.Unread
	b.Shared = in.Shared
	b.ModifiedAt = s.now()

	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update bookmark %d: %w", id, err)
	}
	s.logger.Info("bookmark updated",
		logger.Int64("bookmark_id", b.ID),
		logger.String("owner", actor))
	return b, nil
}

// Get returns bookmark id if actor owns it.
func (s *Service) Get(ctx context.Context, id int64, actor string) (*domain.Bookmark, error) {
	return s.owned(ctx, id, actor)
}

// Archive is a no-op for an already archived bookmark.
func (s *Service) Archive(ctx context.Context, id int64, actor string) error {
	return s.apply(ctx, id, actor, s.archive)
}

// Unarchive is a no-op for an active bookmark.
func (s *Service) Unarchive(ctx context.Context, id int64, actor string) error {
	return s.apply(ctx, id, actor, s.unarchive)
}

// MarkRead clears the unread flag.
func (s *Service) MarkRead(ctx context.Context, id int64, actor string) error {
	return s.apply(ctx, id, actor, s.markRead)
}

// Remove deletes bookmark id.
func (s *Service) Remove(ctx context.Context, id int64, actor string) error {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}
	s.logger.Info("bookmark deleted",
		logger.Int64("bookmark_id", id),
		logger.String("owner", actor))
	return nil
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Created int
	Skipped int
}

// Import creates each entry whose URL actor does not already own. Invalid entries
// are skipped; a store failure stops the import.
func (s *Service) Import(ctx context.Context, actor string, entries []CreateBookmarkInput) (ImportResult, error) {
	var res ImportResult
	existing, err := s.store.List(ctx, domain.Selection{Owner: actor})
	if err != nil {
		return res, fmt.Errorf("failed to list existing bookmarks: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, b := range existing {
		known[b.URL] = true
	}

	for _, in := range entries {
		u := strings.TrimSpace(in.URL)
		if known[u] {
			res.Skipped++
			continue
		}
		if _, err := s.Create(ctx, in, actor); err != nil {
			if domain.IsValidation(err) {
				s.logger.Warn("skipping invalid import entry",
					logger.String("url", in.URL),
					logger.Error(err))
				res.Skipped++
				continue
			}
			return res, err
		}
		known[u] = true
		res.Created++
	}
	return res, nil
}

// owned is the single-item lookup: missing and foreign bookmarks are both ErrNotFound.
func (s *Service) owned(ctx context.Context, id int64, actor string) (*domain.Bookmark, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Owner != actor {
		return nil, fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

func (s *Service) apply(ctx context.Context, id int64, actor string, mutate func(*domain.Bookmark) bool) error {
	b, err := s.owned(ctx, id, actor)
	if err != nil {
		return err
	}
	return s.persist(ctx, b, mutate(b))
}

// persist saves b only when a mutation changed it.
func (s *Service) persist(ctx context.Context, b *domain.Bookmark, changed bool) error {
	if !changed {
		return nil
	}
	if err := s.store.Save(ctx, b); err != nil {
		return fmt.Errorf("failed to save bookmark %d: %w", b.ID, err)
	}
	return nil
}

func (s *Service) archive(b *domain.Bookmark) bool {
	if b.Archived {
		return false
	}
	b.Archived = true
	b.ModifiedAt = s.now()
	return true
}

func (s *Service) unarchive(b *domain.Bookmark) bool {
	if !b.Archived {
		return false
	}
	b.Archived = false
	b.ModifiedAt = s.now()
	return true
}

func (s *Service) markRead(b *domain.Bookmark) bool {
	if !b.Unread {
		return false
	}
	b.Unread = false
	b.ModifiedAt = s.now()
	return true
}

func (s *Service) retag(b *domain.Bookmark, delta domain.TagDelta) bool {
	d := delta.For(b.Tags)
	if d.IsEmpty() {
		return false
	}
	b.Tags = d.Apply(b.Tags)
	b.ModifiedAt = s.now()
	return true
}

// isNotFound reports whether err means the record is gone.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
