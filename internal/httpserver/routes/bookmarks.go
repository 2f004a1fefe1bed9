package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks, mw.RequireActor) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/api/bookmarks", handlers.ListBookmarks(d, false))
	r.Get("/api/bookmarks/archived", handlers.ListBookmarks(d, true))
	r.Get("/api/bookmarks/{id}", handlers.GetBookmark(d))
	r.Get("/api/profile", handlers.GetProfile(d))

	w := limited(r, d)
	w.Post("/api/bookmarks", handlers.CreateBookmark(d))
	w.Put("/api/bookmarks/{id}", handlers.UpdateBookmark(d))
	w.Delete("/api/bookmarks/{id}", handlers.BookmarkAction(d, handlers.RemoveAction))
	w.Post("/api/bookmarks/{id}/archive", handlers.BookmarkAction(d, handlers.ArchiveAction))
	w.Post("/api/bookmarks/{id}/unarchive", handlers.BookmarkAction(d, handlers.UnarchiveAction))
	w.Post("/api/bookmarks/{id}/read", handlers.BookmarkAction(d, handlers.MarkReadAction))
	w.Post("/api/bookmarks/bulk", handlers.Bulk(d))
	w.Put("/api/profile", handlers.UpdateProfile(d))
	w.Post("/api/import/reload", handlers.ReloadImport(d))
}
