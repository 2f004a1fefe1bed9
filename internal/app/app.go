package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/config"
	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver"
	"github.com/MrSnakeDoc/linkshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkshelf/internal/index"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
	"github.com/MrSnakeDoc/linkshelf/internal/redis"
	"github.com/MrSnakeDoc/linkshelf/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/linkshelf/internal/store/redis"
	"github.com/MrSnakeDoc/linkshelf/internal/store/sqlite"
	"github.com/MrSnakeDoc/linkshelf/internal/utils"
	"github.com/MrSnakeDoc/linkshelf/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	closers   []namedCloser
	importer  *scheduler.ImportReloader
	collector *scheduler.OrphanTagCollector
}

type namedCloser struct {
	name string
	c    io.Closer
}

// New loads the configuration, opens the record store and wires the HTTP server
// and background jobs.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	store, closers, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	svc := bookmarks.NewService(store, loggerClient)

	// Initialize import reloader (if an import file is configured)
	var importer *scheduler.ImportReloader
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing import reloader",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewImportReloader(
			cfg.ImportFile,
			cfg.ImportOwner,
			svc,
			loggerClient,
			cfg.ReloadInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("import file not configured, periodic import disabled")
	}

	collector := scheduler.NewOrphanTagCollector(store, loggerClient, cfg.GCInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Build:           version.Get(),
		StoreKind:       cfg.Store,
		Store:           store,
		Engine:          bookmarks.NewEngine(store, loggerClient),
		Service:         svc,
		Bulk:            bookmarks.NewCoordinator(svc, loggerClient),
		ActorHeader:     cfg.ActorHeader,
		DefaultPageSize: cfg.DefaultPageSize,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		ImportTrigger:   importTrigger,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		server:    httpserver.New(cfg, loggerClient, d),
		closers:   closers,
		importer:  importer,
		collector: collector,
	}, nil
}

// openStore builds the configured record store. The returned closers are
// released in order on shutdown.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.Store, []namedCloser, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("redis store initialized", logger.String("addr", cfg.RedisAddr))
		return redisstore.NewStore(client), []namedCloser{{"redis", client}}, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, sqlite.Options{
			Path:        cfg.SQLitePath,
			BusyTimeout: cfg.SQLiteBusyTimeout,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("sqlite store initialized", logger.String("path", cfg.SQLitePath))
		return s, []namedCloser{{"sqlite", s}}, nil

	default:
		log.Warn("using in-memory store, bookmarks are lost on restart")
		return index.NewMemoryIndex(), nil, nil
	}
}

func (a *App) Run() error {
	build := version.Get()
	a.logger.Info("🚀 Starting Linkshelf",
		logger.String("version", build.Version),
		logger.String("commit", build.Commit),
		logger.String("built", build.BuildDate),
		logger.String("go", build.GoVersion),
		logger.String("store", a.cfg.Store),
		logger.String("addr", a.cfg.ListenPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.closeAll()

	// Start import reloader (if enabled)
	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start import reloader: %w", err)
		}
		a.logger.Info("import reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start orphan tag collector (no-op unless the store keeps a tag table)
	if err := a.collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tag collector: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.importer != nil {
		a.importer.Stop()
	}
	a.collector.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Linkshelf stopped cleanly")
	return nil
}

// Import runs a single import of file into the configured store and exits.
// owner overrides the owner named in the file when non-empty.
func Import(ctx context.Context, file, owner string) (bookmarks.ImportResult, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	if cfg.Store == config.StoreMemory {
		loggerClient.Warn("importing into the in-memory store, nothing will persist after exit")
	}

	store, closers, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return bookmarks.ImportResult{}, err
	}
	a := &App{logger: loggerClient, closers: closers}
	defer a.closeAll()

	svc := bookmarks.NewService(store, loggerClient)
	return scheduler.NewImportReloader(file, owner, svc, loggerClient, cfg.ReloadInterval, nil).Reload(ctx)
}

func (a *App) closeAll() {
	for _, nc := range a.closers {
		utils.CloseLogged(nc.c, nc.name, a.logger)
	}
	a.closers = nil
}
