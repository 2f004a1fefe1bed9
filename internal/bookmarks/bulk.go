package bookmarks

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

// Operation is a bulk mutation.
type Operation int

const (
	OpArchive Operation = iota + 1
	OpUnarchive
	OpDelete
	OpTag
	OpUntag
)

// Operations lists every bulk operation in dispatch order.
var Operations = []Operation{OpArchive, OpUnarchive, OpDelete, OpTag, OpUntag}

func (op Operation) String() string {
	switch op {
	case OpArchive:
		return "archive"
	case OpUnarchive:
		return "unarchive"
	case OpDelete:
		return "delete"
	case OpTag:
		return "tag"
	case OpUntag:
		return "untag"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// ParseOperation maps a wire name to an Operation. The "bulk_" prefix used by
// form buttons is accepted.
func ParseOperation(name string) (Operation, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "bulk_")
	for _, op := range Operations {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, name)
}

// BulkRequest is one batch. TagString is used by OpTag and OpUntag only.
type BulkRequest struct {
	Op        Operation
	IDs       []int64
	Actor     string
	TagString string
}

// BulkResult counts what happened to the batch.
type BulkResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// Coordinator applies one operation to each bookmark of a batch independently.
// Items the actor does not own, or that are gone, are skipped; a failure on one
// item never undoes or stops the others.
type Coordinator struct {
	store   domain.Store
	service *Service
	logger  logger.Logger
}

// NewCoordinator creates a bulk coordinator sharing svc's store and mutations
func NewCoordinator(svc *Service, log logger.Logger) *Coordinator {
	return &Coordinator{store: svc.store, service: svc, logger: log}
}

type mutation func(ctx context.Context, b *domain.Bookmark) error

// Apply runs req in ID order. It only returns an error for an unknown operation,
// or when ctx ends between items; in the latter case the partial result is returned too.
func (c *Coordinator) Apply(ctx context.Context, req BulkRequest) (BulkResult, error) {
	var res BulkResult

	mutate, err := c.mutation(req)
	if err != nil {
		return res, err
	}

	for _, id := range req.IDs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, err := c.store.Get(ctx, id)
		if err != nil {
			c.skip(req, id, "lookup failed", err)
			res.Skipped++
			continue
		}
		if b.Owner != req.Actor {
			c.skip(req, id, "not owned by actor", nil)
			res.Skipped++
			continue
		}
		if err := mutate(ctx, b); err != nil {
			c.skip(req, id, "mutation failed", err)
			res.Skipped++
			continue
		}
		res.Applied++
	}

	c.logger.Info("bulk operation applied",
		logger.String("operation", req.Op.String()),
		logger.String("actor", req.Actor),
		logger.Int("requested", len(req.IDs)),
		logger.Int("applied", res.Applied),
		logger.Int("skipped", res.Skipped))
	return res, nil
}

// mutation is the single dispatch point for the Operation enum.
func (c *Coordinator) mutation(req BulkRequest) (mutation, error) {
	svc := c.service
	switch req.Op {
	case OpArchive:
		return func(ctx context.Context, b *domain.Bookmark) error {
			return svc.persist(ctx, b, svc.archive(b))
		}, nil
	case OpUnarchive:
		return func(ctx context.Context, b *domain.Bookmark) error {
			return svc.persist(ctx, b, svc.unarchive(b))
		}, nil
	case OpDelete:
		return func(ctx context.Context, b *domain.Bookmark) error {
			return c.store.Delete(ctx, b.ID)
		}, nil
	case OpTag:
		delta := domain.ParseTagDelta(req.TagString, "")
		return func(ctx context.Context, b *domain.Bookmark) error {
			return svc.persist(ctx, b, svc.retag(b, delta))
		}, nil
	case OpUntag:
		delta := domain.ParseTagDelta("", req.TagString)
		return func(ctx context.Context, b *domain.Bookmark) error {
			return svc.persist(ctx, b, svc.retag(b, delta))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, req.Op)
	}
}

func (c *Coordinator) skip(req BulkRequest, id int64, reason string, err error) {
	fields := []logger.Field{
		logger.String("operation", req.Op.String()),
		logger.Int64("bookmark_id", id),
		logger.String("reason", reason),
	}
	if err != nil && !isNotFound(err) {
		c.logger.Warn("bulk item skipped", append(fields, logger.Error(err))...)
		return
	}
	c.logger.Debug("bulk item skipped", fields...)
}
