package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, w *Watch) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not resolve")
	}
}

func TestWatchResolvesOnInstall(t *testing.T) {
	feed := NewChannelFeed()
	w := Start(context.Background(), feed, "sha256:abc")

	feed.C <- BundleStatus{ContentHash: "sha256:abc", Installed: true}

	waitDone(t, w)
	require.True(t, w.Installed())
	require.NoError(t, w.Err())
}

func TestWatchIgnoresOtherBundles(t *testing.T) {
	feed := NewChannelFeed()
	w := Start(context.Background(), feed, "sha256:abc")

	feed.C <- BundleStatus{ContentHash: "sha256:other", Installed: true}
	feed.C <- BundleStatus{ContentHash: "sha256:another", Installed: false, Error: "boom"}

	select {
	case <-w.Done():
		t.Fatal("watch resolved on a non-matching bundle")
	case <-time.After(100 * time.Millisecond):
	}

	feed.C <- BundleStatus{ContentHash: "sha256:abc", Installed: true}
	waitDone(t, w)
	require.True(t, w.Installed())
}

func TestWatchRejectsFailedInstall(t *testing.T) {
	feed := NewChannelFeed()
	w := Start(context.Background(), feed, "sha256:abc")

	feed.C <- BundleStatus{ContentHash: "sha256:abc", Installed: false, Error: "bundle too large"}

	waitDone(t, w)
	require.False(t, w.Installed())
	require.ErrorIs(t, w.Err(), ErrBundleRejected)
	require.Contains(t, w.Err().Error(), "bundle too large")
}

func TestWatchFailsOnFeedError(t *testing.T) {
	feed := NewChannelFeed()
	close(feed.C)

	w := Start(context.Background(), feed, "sha256:abc")
	waitDone(t, w)
	require.False(t, w.Installed())
	require.Error(t, w.Err())
}

func TestWatchStop(t *testing.T) {
	feed := NewChannelFeed()
	w := Start(context.Background(), feed, "sha256:abc")

	w.Stop()

	require.False(t, w.Installed())
	require.ErrorIs(t, w.Err(), context.Canceled)
}

func TestWatchWait(t *testing.T) {
	feed := NewChannelFeed()
	w := Start(context.Background(), feed, "sha256:abc")
	feed.C <- BundleStatus{ContentHash: "sha256:abc", Installed: true}
	require.NoError(t, w.Wait(context.Background()))
}

type scriptedSource struct {
	batches [][]BundleStatus
	errs    []error
	cursors []int64
	call    int
	seen    []int64
}

func (s *scriptedSource) ReadAfter(_ context.Context, cursor int64) ([]BundleStatus, int64, error) {
	s.seen = append(s.seen, cursor)
	i := s.call
	if i >= len(s.batches) {
		i = len(s.batches) - 1
	}
	s.call++
	return s.batches[i], s.cursors[i], s.errs[i]
}

func TestPollingFeedDrainsBatchesAndAdvancesCursor(t *testing.T) {
	src := &scriptedSource{
		batches: [][]BundleStatus{
			{{ContentHash: "sha256:a"}, {ContentHash: "sha256:b"}},
			{{ContentHash: "sha256:c", Installed: true}},
		},
		cursors: []int64{10, 20},
		errs:    []error{nil, nil},
	}
	feed := NewPollingFeed(src, 5, time.Millisecond)
	ctx := context.Background()

	for _, want := range []string{"sha256:a", "sha256:b", "sha256:c"} {
		status, err := feed.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, want, status.ContentHash)
	}
	require.Equal(t, []int64{5, 10}, src.seen[:2])
}

func TestPollingFeedRetriesTransientErrors(t *testing.T) {
	src := &scriptedSource{
		batches: [][]BundleStatus{nil, {{ContentHash: "sha256:a", Installed: true}}},
		cursors: []int64{0, 7},
		errs:    []error{errors.New("connection refused"), nil},
	}
	feed := NewPollingFeed(src, 0, time.Millisecond)

	status, err := feed.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sha256:a", status.ContentHash)
	require.GreaterOrEqual(t, src.call, 2)
}

func TestPollingFeedStopsOnCancel(t *testing.T) {
	src := &scriptedSource{
		batches: [][]BundleStatus{nil},
		cursors: []int64{0},
		errs:    []error{errors.New("connection refused")},
	}
	// Backoff far longer than the deadline so cancellation wins the race.
	feed := NewPollingFeed(src, 0, 200*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := feed.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollingFeedFailsAfterRetriesExhausted(t *testing.T) {
	srcErr := errors.New("connection refused")
	src := &scriptedSource{
		batches: [][]BundleStatus{nil},
		cursors: []int64{0},
		errs:    []error{srcErr},
	}
	feed := NewPollingFeed(src, 0, time.Millisecond)

	_, err := feed.Next(context.Background())
	require.ErrorIs(t, err, srcErr)
	// One initial read plus the bounded retries, then no more.
	require.Equal(t, maxSourceRetries+1, src.call)
}
