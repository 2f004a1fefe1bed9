package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic transaction retries when a watched key changes.
const maxTxRetries = 5

// Store is a domain.Store backed by Redis. Bookmarks are JSON values indexed by
// three ID sets: all, per owner and shared.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

var _ domain.Store = (*Store)(nil)

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Profile returns the saved profile or the default one
func (s *Store) Profile(ctx context.Context, owner string) (*domain.Profile, error) {
	data, err := s.client.Get(ctx, ProfileKey(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultProfile(owner), nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

// SaveProfile stores a profile in Redis
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.client.Set(ctx, ProfileKey(p.Owner), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// watch runs fn as an optimistic transaction on keys, retrying when another
// client modified them first.
func (s *Store) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	var err error
	for range maxTxRetries {
		err = s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
