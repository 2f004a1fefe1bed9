package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
)

type reloadResponse struct {
	Status string `json:"status"`
}

// ReloadImport queues a re-import of the configured YAML file. A reload
// already pending absorbs the request.
func ReloadImport(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no import file configured"})
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			writeJSON(w, http.StatusAccepted, reloadResponse{Status: "queued"})
		default:
			writeJSON(w, http.StatusAccepted, reloadResponse{Status: "already pending"})
		}
	}
}
