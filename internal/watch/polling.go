package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPollInterval paces status reads against the node.
const DefaultPollInterval = 2 * time.Second

// maxSourceRetries bounds consecutive failed reads before the feed itself
// fails. A dead endpoint must surface as a feed error, not an endless
// "no match yet".
const maxSourceRetries = 5

// Source reads bundle status updates recorded after a cursor. The cursor is
// opaque to this package; a chain-backed source uses block height.
type Source interface {
	ReadAfter(ctx context.Context, cursor int64) (statuses []BundleStatus, next int64, err error)
}

// PollingFeed adapts a cursor-based Source into a Feed by polling on an
// interval. Transient read failures are retried with exponential backoff;
// the feed fails only when retries are exhausted. Not safe for concurrent
// consumers.
type PollingFeed struct {
	source   Source
	interval time.Duration

	cursor int64
	queue  []BundleStatus
}

// NewPollingFeed creates a feed reading from source every interval, starting
// after cursor. A non-positive interval uses DefaultPollInterval.
func NewPollingFeed(source Source, cursor int64, interval time.Duration) *PollingFeed {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingFeed{source: source, interval: interval, cursor: cursor}
}

// Next implements Feed.
func (f *PollingFeed) Next(ctx context.Context) (BundleStatus, error) {
	if len(f.queue) > 0 {
		return f.pop(), nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = f.interval
	bo := backoff.WithMaxRetries(expo, maxSourceRetries)

	for {
		statuses, next, err := f.source.ReadAfter(ctx, f.cursor)
		if err != nil {
			if ctx.Err() != nil {
				return BundleStatus{}, ctx.Err()
			}
			d := bo.NextBackOff()
			if d == backoff.Stop {
				return BundleStatus{}, fmt.Errorf("bundle status source failed %d consecutive reads: %w", maxSourceRetries+1, err)
			}
			if !sleep(ctx, d) {
				return BundleStatus{}, ctx.Err()
			}
			continue
		}
		bo.Reset()
		f.cursor = next
		if len(statuses) > 0 {
			f.queue = append(f.queue, statuses...)
			return f.pop(), nil
		}
		if !sleep(ctx, f.interval) {
			return BundleStatus{}, ctx.Err()
		}
	}
}

func (f *PollingFeed) pop() BundleStatus {
	status := f.queue[0]
	f.queue = f.queue[1:]
	return status
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// ChannelFeed is a Feed backed by a channel. Useful for tests and for
// sources that push.
type ChannelFeed struct {
	C chan BundleStatus
}

// NewChannelFeed creates a push feed with a small buffer.
func NewChannelFeed() *ChannelFeed {
	return &ChannelFeed{C: make(chan BundleStatus, 16)}
}

// Next implements Feed.
func (f *ChannelFeed) Next(ctx context.Context) (BundleStatus, error) {
	select {
	case <-ctx.Done():
		return BundleStatus{}, ctx.Err()
	case status, ok := <-f.C:
		if !ok {
			return BundleStatus{}, fmt.Errorf("feed closed")
		}
		return status, nil
	}
}
