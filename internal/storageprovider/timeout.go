package storageprovider

import (
	"context"
	"io"
	"time"
)

// fetchTimeouts bundles the three dimensions a storage fetch enforces
// (§4.A): a total deadline for the whole attempt loop, a per-request
// deadline for one network call, and an idle deadline that resets every
// time a chunk of the response body is read.
type fetchTimeouts struct {
	total      time.Duration
	perRequest time.Duration
	idle       time.Duration
}

// newFetchTimeouts derives the per-request and idle budgets from the
// configured total so a slow-but-not-hung transfer still has room for
// retries within the total (§6 performance.worker.timeout).
func newFetchTimeouts(seconds int) fetchTimeouts {
	if seconds <= 0 {
		seconds = 30
	}
	total := time.Duration(seconds) * time.Second
	return fetchTimeouts{
		total:      total,
		perRequest: total / 2,
		idle:       total / 3,
	}
}

// idleResetReader cancels its context if no Read succeeds within idle of
// the previous one, so a connection that stops sending bytes without
// closing doesn't hang past the idle budget.
type idleResetReader struct {
	io.ReadCloser
	timer *time.Timer
	idle  time.Duration
}

func newIdleResetReader(body io.ReadCloser, idle time.Duration, cancel context.CancelFunc) *idleResetReader {
	return &idleResetReader{ReadCloser: body, timer: time.AfterFunc(idle, cancel), idle: idle}
}

func (r *idleResetReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if n > 0 {
		r.timer.Reset(r.idle)
	}
	return n, err
}

// stop releases the idle timer; callers must call it once the read loop
// finishes to avoid firing cancel on an already-completed fetch.
func (r *idleResetReader) stop() {
	r.timer.Stop()
}
