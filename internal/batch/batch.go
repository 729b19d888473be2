// Package batch drives icon replacement over many targets, keeping per-item
// outcome counts and never letting one failing item abort the run.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	iverrors "github.com/iconvault/iconvault/internal/errors"
)

// ItemError records why one item failed.
type ItemError struct {
	Target string
	Err    error
}

// Result summarizes a batch run. Every item considered lands in exactly one
// of the three outcome buckets, so Total == Succeeded + Failed + Skipped
// always holds.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Errors    []ItemError
	Duration  time.Duration
}

// ProgressFunc is called after each item is handled. done counts handled
// items so far.
type ProgressFunc func(done, total int, target string)

// ErrorFunc is called when an item fails.
type ErrorFunc func(target string, err error)

// Coordinator runs an apply function over a list of items. Callbacks are
// invoked synchronously between items and must return promptly; the
// coordinator ignores everything about them except that they return.
type Coordinator struct {
	onProgress ProgressFunc
	onError    ErrorFunc
	logger     *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Coordinator) { c.onProgress = fn }
}

// WithErrorCallback registers a per-item error callback.
func WithErrorCallback(fn ErrorFunc) Option {
	return func(c *Coordinator) { c.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process applies fn to every item in order. An item whose apply reports the
// target missing is counted as skipped, not failed; any other error counts
// as failed and is reported through the error callback. Cancellation is
// cooperative: the context is checked between items and remaining items are
// simply not started, so Total reflects only the items actually considered.
func (c *Coordinator) Process(ctx context.Context, items []Item, fn func(Item) error) Result {
	start := time.Now()
	var res Result

	for _, item := range items {
		if ctx.Err() != nil {
			c.logger.Info("batch canceled", "handled", res.Total, "remaining", len(items)-res.Total)
			break
		}

		res.Total++

		err := fn(item)
		switch {
		case err == nil:
			res.Succeeded++
		case errors.Is(err, iverrors.ErrNotFound):
			res.Skipped++
			c.logger.Debug("batch item skipped", "target", item.Target, "reason", err)
		default:
			res.Failed++
			res.Errors = append(res.Errors, ItemError{Target: item.Target, Err: err})
			if c.onError != nil {
				c.onError(item.Target, err)
			}
			c.logger.Warn("batch item failed", "target", item.Target, "error", err)
		}

		if c.onProgress != nil {
			c.onProgress(res.Total, len(items), item.Target)
		}
	}

	res.Duration = time.Since(start)
	return res
}
