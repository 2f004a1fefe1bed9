package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/mw"
)

// GetProfile returns the actor's sharing and paging preferences.
func GetProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Service.Profile(r.Context(), mw.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdateProfile handles PUT /api/profile.
func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in bookmarks.ProfileInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		p, err := d.Service.UpdateProfile(r.Context(), mw.ActorFrom(r.Context()), in)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
