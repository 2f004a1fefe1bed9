package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/mw"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type listResponse struct {
	Query        string               `json:"query"`
	Bookmarks    []*domain.Bookmark   `json:"bookmarks"`
	Total        int                  `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
	HasMore      bool                 `json:"has_more"`
	Tags         []bookmarks.TagCount `json:"tags"`
	SelectedTags []string             `json:"selected_tags"`
	Users        []string             `json:"users,omitempty"`
}

type bookmarkResponse struct {
	*domain.Bookmark
	TagString string `json:"tag_string"`
}

func newListResponse(q string, res *bookmarks.Result) listResponse {
	selected := res.TagCloud.Selected
	if selected == nil {
		selected = []string{}
	}
	return listResponse{
		Query:        q,
		Bookmarks:    res.Bookmarks,
		Total:        res.Total,
		Offset:       res.Offset,
		Limit:        res.Limit,
		HasMore:      res.HasMore(),
		Tags:         res.TagCloud.Entries(),
		SelectedTags: selected,
	}
}

// pageSize resolves ?limit, then the actor's profile, then the server default.
func pageSize(ctx context.Context, r *http.Request, d deps.Deps, actor string) (int, error) {
	if n, ok := queryInt(r, "limit"); ok && n > 0 {
		return n, nil
	}
	if actor != "" {
		p, err := d.Store.Profile(ctx, actor)
		if err != nil {
			return 0, err
		}
		if p.PageSize > 0 {
			return p.PageSize, nil
		}
	}
	if d.DefaultPageSize > 0 {
		return d.DefaultPageSize, nil
	}
	return domain.DefaultPageSize, nil
}

// ListBookmarks serves the actor's active or archived bookmarks.
func ListBookmarks(d deps.Deps, archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor := mw.ActorFrom(ctx)
		q := r.URL.Query().Get("q")

		limit, err := pageSize(ctx, r, d, actor)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		offset, _ := queryInt(r, "offset")

		res, err := d.Engine.Search(ctx, bookmarks.Request{
			Filter:   domain.ParseQuery(q),
			Scope:    domain.ScopeOwner,
			Actor:    actor,
			Archived: archived,
		}, offset, limit)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(q, res))
	}
}

// SharedBookmarks serves every visible shared bookmark. Anonymous viewers only
// see owners who enabled public sharing.
func SharedBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor := mw.ActorFrom(ctx)
		q := r.URL.Query().Get("q")
		publicOnly := actor == ""

		limit, err := pageSize(ctx, r, d, actor)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		offset, _ := queryInt(r, "offset")

		res, err := d.Engine.Search(ctx, bookmarks.Request{
			Filter:     domain.ParseQuery(q),
			Scope:      domain.ScopeShared,
			PublicOnly: publicOnly,
		}, offset, limit)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		out := newListResponse(q, res)
		out.Users = res.Owners
		writeJSON(w, http.StatusOK, out)
	}
}

// CreateBookmark handles POST /api/bookmarks.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarks.CreateBookmarkInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		b, err := d.Service.Create(r.Context(), in, mw.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(b))
	}
}

// GetBookmark returns one owned bookmark with its editable tag string.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		b, err := d.Service.Get(r.Context(), id, mw.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(b))
	}
}

// UpdateBookmark handles PUT /api/bookmarks/{id}.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		var in bookmarks.UpdateBookmarkInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		b, err := d.Service.Update(r.Context(), id, in, mw.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(b))
	}
}

// Action is a single-bookmark state change.
type Action func(svc *bookmarks.Service, ctx context.Context, id int64, actor string) error

var (
	ArchiveAction   Action = (*bookmarks.Service).Archive
	UnarchiveAction Action = (*bookmarks.Service).Unarchive
	MarkReadAction  Action = (*bookmarks.Service).MarkRead
	RemoveAction    Action = (*bookmarks.Service).Remove
)

// BookmarkAction runs act on {id} and answers 204.
func BookmarkAction(d deps.Deps, act Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		if err := act(d.Service, r.Context(), id, mw.ActorFrom(r.Context())); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(b *domain.Bookmark) bookmarkResponse {
	return bookmarkResponse{Bookmark: b, TagString: domain.BuildTagString(b.Tags, domain.Space)}
}
