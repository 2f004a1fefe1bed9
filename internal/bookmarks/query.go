package bookmarks

import (
	"context"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

// Request describes one query against the bookmark store.
type Request struct {
	Filter domain.Filter
	Scope  domain.Scope
	Actor  string

	// Archived selects the archived or the active view in owner scope.
	Archived bool
	// PublicOnly further restricts shared scope to owners who allow anonymous viewing.
	PublicOnly bool
}

// Engine evaluates filters against the store. It holds no per-request state.
type Engine struct {
	store  domain.Store
	logger logger.Logger
}

// NewEngine creates a query engine on top of store
func NewEngine(store domain.Store, log logger.Logger) *Engine {
	return &Engine{store: store, logger: log}
}

// Query returns the lazy match sequence for req. Nothing is read until it is consumed.
func (e *Engine) Query(req Request) *Matches {
	return &Matches{engine: e, req: req}
}

// Search evaluates req once and returns one page with its total and tag cloud.
func (e *Engine) Search(ctx context.Context, req Request, offset, limit int) (*Result, error) {
	return e.Query(req).Page(ctx, offset, limit)
}

// evaluate loads the candidates for req's scope, applies the full predicate and
// sorts newest first.
func (e *Engine) evaluate(ctx context.Context, req Request) ([]*domain.Bookmark, error) {
	sel, err := selectionFor(req)
	if err != nil {
		return nil, err
	}

	candidates, err := e.store.List(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	visible := e.visibility(ctx, req)
	matched := make([]*domain.Bookmark, 0, len(candidates))
	for _, b := range candidates {
		if !sel.Includes(b) {
			continue
		}
		ok, err := visible(b)
		if err != nil {
			return nil, err
		}
		if ok && req.Filter.Matches(b) {
			matched = append(matched, b)
		}
	}

	slices.SortFunc(matched, func(a, b *domain.Bookmark) int {
		switch {
		case domain.Less(a, b):
			return -1
		case domain.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	e.logger.Debug("query evaluated",
		logger.String("scope", req.Scope.String()),
		logger.String("filter", req.Filter.String()),
		logger.Int("candidates", len(candidates)),
		logger.Int("matched", len(matched)))

	return matched, nil
}

// selectionFor maps the scope to what the store can filter on its own.
func selectionFor(req Request) (domain.Selection, error) {
	switch req.Scope {
	case domain.ScopeOwner:
		if req.Actor == "" {
			return domain.Selection{}, fmt.Errorf("owner scope without actor: %w", domain.ErrPermission)
		}
		archived := req.Archived
		return domain.Selection{Owner: req.Actor, Archived: &archived}, nil
	case domain.ScopeShared:
		return domain.Selection{SharedOnly: true}, nil
	default:
		return domain.Selection{}, fmt.Errorf("unknown scope %d", req.Scope)
	}
}

// visibility returns the per-owner profile check for shared scope. Profiles are
// looked up once per owner per evaluation.
func (e *Engine) visibility(ctx context.Context, req Request) func(*domain.Bookmark) (bool, error) {
	if req.Scope != domain.ScopeShared {
		return func(*domain.Bookmark) (bool, error) { return true, nil }
	}

	profiles := make(map[string]*domain.Profile)
	return func(b *domain.Bookmark) (bool, error) {
		p, ok := profiles[b.Owner]
		if !ok {
			var err error
			p, err = e.store.Profile(ctx, b.Owner)
			if err != nil {
				return false, fmt.Errorf("failed to load profile %s: %w", b.Owner, err)
			}
			profiles[b.Owner] = p
		}
		if !p.EnableSharing {
			return false, nil
		}
		return !req.PublicOnly || p.EnablePublicSharing, nil
	}
}
