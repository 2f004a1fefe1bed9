package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
	"github.com/MrSnakeDoc/linkshelf/internal/version"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Build           version.Info
	StoreKind       string                          // memory, redis or sqlite
	Store           domain.Store                    // record store, pinged by readyz
	Engine          *bookmarks.Engine               // read side: filters, pages and tag clouds
	Service         *bookmarks.Service              // single-bookmark lifecycle
	Bulk            *bookmarks.Coordinator          // batch mutations
	ActorHeader     string                          // trusted header carrying the authenticated user
	DefaultPageSize int                             // page size when neither the request nor the profile sets one
	AllowedCIDRS    []string                        // IPs allowed to access healthz/readyz endpoints
	TrustProxy      bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimit       func(http.Handler) http.Handler // shared limiter for mutating routes (nil = unlimited)
	ImportTrigger   chan struct{}                   // manual import reload (nil if no import file is configured)
}
