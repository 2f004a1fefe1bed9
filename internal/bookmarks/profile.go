package bookmarks

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

// Profile returns the actor's profile, or the default one if it was never saved.
func (s *Service) Profile(ctx context.Context, actor string) (*domain.Profile, error) {
	if actor == "" {
		return nil, fmt.Errorf("get profile: %w", domain.ErrPermission)
	}
	p, err := s.store.Profile(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile replaces the actor's sharing and paging preferences.
func (s *Service) UpdateProfile(ctx context.Context, actor string, in ProfileInput) (*domain.Profile, error) {
	if actor == "" {
		return nil, fmt.Errorf("update profile: %w", domain.ErrPermission)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &domain.Profile{
		Owner:               actor,
		EnableSharing:       in.EnableSharing,
		EnablePublicSharing: in.EnablePublicSharing,
		PageSize:            in.PageSize,
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("profile updated",
		logger.String("owner", actor),
		logger.Bool("sharing", p.EnableSharing),
		logger.Bool("public_sharing", p.EnablePublicSharing),
		logger.Int("page_size", p.PageSize))
	return p, nil
}
