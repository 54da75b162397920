// Package watch tracks asynchronous bundle installation. Installing a bundle
// is a two-step affair: the install message lands in a block immediately, but
// the chain validates and activates the bundle later and reports the outcome
// on a status feed. A Watch resolves once the feed shows a status for the
// bundle's content hash.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBundleRejected reports that the chain processed the bundle and refused
// it.
var ErrBundleRejected = errors.New("bundle rejected by chain")

// BundleStatus is one entry from the chain's bundle installation feed.
type BundleStatus struct {
	// ContentHash identifies the bundle, "sha256:" prefixed.
	ContentHash string
	// Installed is true once the chain activated the bundle.
	Installed bool
	// Error carries the chain's reason when installation failed.
	Error string
}

// Feed yields bundle status updates in the order the chain recorded them.
type Feed interface {
	// Next blocks until the next status update, a feed failure, or ctx
	// cancellation.
	Next(ctx context.Context) (BundleStatus, error)
}

// Watch is a handle on one pending bundle installation. It resolves exactly
// once; statuses for other bundles leave it pending.
type Watch struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	installed bool
	err       error
}

// Start consumes feed until a status matching contentHash arrives, the feed
// fails, or the watch is stopped. The returned handle reports the outcome.
func Start(ctx context.Context, feed Feed, contentHash string) *Watch {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		defer cancel()
		for {
			status, err := feed.Next(ctx)
			if err != nil {
				w.finish(false, fmt.Errorf("bundle status feed failed: %w", err))
				return
			}
			if status.ContentHash != contentHash {
				continue
			}
			if !status.Installed {
				w.finish(false, fmt.Errorf("%w: %s", ErrBundleRejected, status.Error))
				return
			}
			w.finish(true, nil)
			return
		}
	}()

	return w
}

func (w *Watch) finish(installed bool, err error) {
	w.mu.Lock()
	w.installed = installed
	w.err = err
	w.mu.Unlock()
}

// Done is closed once the watch has resolved or was stopped.
func (w *Watch) Done() <-chan struct{} { return w.done }

// Err returns the failure after Done is closed, or nil on success.
func (w *Watch) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Installed reports whether the bundle activated. Valid after Done closes.
func (w *Watch) Installed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.installed
}

// Stop abandons the watch. The handle resolves with a cancellation error
// unless it already resolved.
func (w *Watch) Stop() {
	w.cancel()
	<-w.done
}

// Wait blocks until the watch resolves and returns its error.
func (w *Watch) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return w.Err()
	}
}
