package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/mw"
)

type bulkRequest struct {
	Action      string            `json:"action"`
	BookmarkIDs []json.RawMessage `json:"bookmark_ids"`
	TagString   string            `json:"tag_string"`
}

// Bulk handles POST /api/bookmarks/bulk. IDs may be numbers or numeric strings;
// anything else is counted as skipped.
func Bulk(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		op, err := bookmarks.ParseOperation(req.Action)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		ids, invalid := parseIDs(req.BookmarkIDs)
		res, err := d.Bulk.Apply(r.Context(), bookmarks.BulkRequest{
			Op:        op,
			IDs:       ids,
			Actor:     mw.ActorFrom(r.Context()),
			TagString: req.TagString,
		})
		res.Skipped += invalid
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func parseIDs(raw []json.RawMessage) (ids []int64, invalid int) {
	ids = make([]int64, 0, len(raw))
	for _, m := range raw {
		s := strings.Trim(strings.TrimSpace(string(m)), `"`)
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			invalid++
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}
