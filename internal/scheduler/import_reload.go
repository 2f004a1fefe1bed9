package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/bookmarks"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
	"github.com/MrSnakeDoc/linkshelf/internal/sources/yamlfile"
)

// ErrNoOwner is returned when neither the file nor the caller names an owner.
var ErrNoOwner = errors.New("import file has no owner")

// ImportReloader periodically imports a YAML bookmark file. Entries whose URL
// the owner already has are left alone, so reloading is idempotent.
type ImportReloader struct {
	loader        *yamlfile.Loader
	mapper        *yamlfile.Mapper
	service       *bookmarks.Service
	owner         string
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewImportReloader creates a new import reloader. owner overrides the owner
// named in the file when non-empty.
func NewImportReloader(
	importFile string,
	owner string,
	svc *bookmarks.Service,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ImportReloader {
	return &ImportReloader{
		loader:        yamlfile.NewLoader(importFile),
		mapper:        yamlfile.NewMapper(),
		service:       svc,
		owner:         owner,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the first import synchronously, then keeps importing in the background
func (ir *ImportReloader) Start(ctx context.Context) error {
	if _, err := ir.Reload(ctx); err != nil {
		return fmt.Errorf("initial import failed: %w", err)
	}

	ticker := time.NewTicker(ir.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ir.reloadLogged(ctx)
			case <-ir.manualTrigger:
				ir.logger.Info("manual import triggered")
				ir.reloadLogged(ctx)
			case <-ir.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (ir *ImportReloader) Stop() {
	close(ir.stopCh)
}

// Reload loads the file once and imports its entries
func (ir *ImportReloader) Reload(ctx context.Context) (bookmarks.ImportResult, error) {
	ir.logger.Info("importing bookmarks", logger.String("file", ir.loader.Path()))

	file, err := ir.loader.Load()
	if err != nil {
		return bookmarks.ImportResult{}, fmt.Errorf("failed to load import file: %w", err)
	}

	owner := ir.owner
	if owner == "" {
		owner = file.Owner
	}
	if owner == "" {
		return bookmarks.ImportResult{}, ErrNoOwner
	}

	entries, err := ir.mapper.Map(file)
	if err != nil {
		return bookmarks.ImportResult{}, fmt.Errorf("failed to map import file: %w", err)
	}

	res, err := ir.service.Import(ctx, owner, entries)
	if err != nil {
		return res, fmt.Errorf("failed to import bookmarks: %w", err)
	}

	ir.logger.Info("bookmarks imported",
		logger.String("owner", owner),
		logger.Int("entries", len(entries)),
		logger.Int("created", res.Created),
		logger.Int("skipped", res.Skipped))
	return res, nil
}

func (ir *ImportReloader) reloadLogged(ctx context.Context) {
	if _, err := ir.Reload(ctx); err != nil {
		ir.logger.Error("failed to reload import file", logger.Error(err))
	}
}
