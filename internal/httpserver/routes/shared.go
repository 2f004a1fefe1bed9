package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/handlers"
)

// The shared view is the only API route open to anonymous viewers.
func init() { Register("shared", registerShared) }

func registerShared(r chi.Router, d deps.Deps) {
	r.Get("/api/shared", handlers.SharedBookmarks(d))
}
