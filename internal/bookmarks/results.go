package bookmarks

import (
	"context"
	"iter"
	"slices"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
)

// Matches is a lazy, restartable sequence of query results. Every method
// re-evaluates the query against the store, so a second page never sees a stale
// first evaluation.
type Matches struct {
	engine *Engine
	req    Request
}

// All yields every match in order. On failure it yields a single (nil, err).
func (m *Matches) All(ctx context.Context) iter.Seq2[*domain.Bookmark, error] {
	return func(yield func(*domain.Bookmark, error) bool) {
		matched, err := m.engine.evaluate(ctx, m.req)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, b := range matched {
			if !yield(b, nil) {
				return
			}
		}
	}
}

// Count returns the size of the full match set.
func (m *Matches) Count(ctx context.Context) (int, error) {
	matched, err := m.engine.evaluate(ctx, m.req)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// TagCloud aggregates tag frequencies over the full match set.
func (m *Matches) TagCloud(ctx context.Context) (TagCloud, error) {
	matched, err := m.engine.evaluate(ctx, m.req)
	if err != nil {
		return TagCloud{}, err
	}
	return buildTagCloud(matched, m.req.Filter), nil
}

// Page evaluates once and slices out [offset, offset+limit). limit <= 0 means
// DefaultPageSize and a negative offset is treated as 0.
func (m *Matches) Page(ctx context.Context, offset, limit int) (*Result, error) {
	matched, err := m.engine.evaluate(ctx, m.req)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	offset = max(offset, 0)
	start := min(offset, len(matched))
	// Clamp against what is left so start+limit cannot overflow.
	end := start + min(limit, len(matched)-start)

	return &Result{
		Bookmarks: matched[start:end],
		Total:     len(matched),
		Offset:    offset,
		Limit:     limit,
		TagCloud:  buildTagCloud(matched, m.req.Filter),
		Owners:    ownersOf(matched),
	}, nil
}

// Result is one evaluated page.
type Result struct {
	Bookmarks []*domain.Bookmark
	Total     int // size of the match set before paging
	Offset    int
	Limit     int
	TagCloud  TagCloud
	// Owners lists, sorted, the distinct owners of the full match set.
	Owners []string
}

// HasMore reports whether another page follows this one.
func (r *Result) HasMore() bool {
	return r.Offset+len(r.Bookmarks) < r.Total
}

// TagCount is one tag cloud entry.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCloud is the tag frequency over a match set.
type TagCloud struct {
	Counts map[string]int
	// Selected are the tags the filter already requires.
	Selected []string
}

// Entries returns the cloud ordered by count descending, then name ascending.
func (c TagCloud) Entries() []TagCount {
	out := make([]TagCount, 0, len(c.Counts))
	for name, n := range c.Counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}

func buildTagCloud(matched []*domain.Bookmark, f domain.Filter) TagCloud {
	counts := make(map[string]int)
	for _, b := range matched {
		for _, name := range b.Tags {
			counts[name]++
		}
	}
	return TagCloud{Counts: counts, Selected: slices.Clone(f.Tags)}
}

func ownersOf(matched []*domain.Bookmark) []string {
	owners := make([]string, 0)
	for _, b := range matched {
		if !slices.Contains(owners, b.Owner) {
			owners = append(owners, b.Owner)
		}
	}
	slices.Sort(owners)
	return owners
}
