package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/version"
)

type healthzResponse struct {
	Status        string       `json:"status"`
	Store         string       `json:"store,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Build         version.Info `json:"build"`
}

// Healthz is liveness only; it never touches the store (see Readyz).
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Store:         d.StoreKind,
			UptimeSeconds: int64(time.Since(d.StartTime) / time.Second),
			Build:         d.Build,
		})
	}
}
