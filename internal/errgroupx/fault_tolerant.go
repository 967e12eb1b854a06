// Package errgroupx generalizes the teacher's fault-tolerant task group
// (internal/utils/errgroup) from []error accumulation to typed result
// collection: every task runs to completion regardless of its siblings'
// outcome, and its result (success or failure) is returned rather than
// discarded, which is what the orchestrator's per-photo tasks need (§4.F,
// §7 — a worker failure never aborts the run).
package errgroupx

import "sync"

// Group runs a bounded number of typed tasks concurrently, collecting every
// result even when individual tasks fail.
type Group[T any] struct {
	concurrency int
}

// New returns a Group that runs at most concurrency tasks at once. A
// concurrency <= 0 means unbounded.
func New[T any](concurrency int) *Group[T] {
	return &Group[T]{concurrency: concurrency}
}

// Run executes fn once per item in items, respecting the configured
// concurrency limit, and returns one result per item in input order.
func (g *Group[T]) Run(items []int, fn func(index int) T) []T {
	results := make([]T, len(items))
	if len(items) == 0 {
		return results
	}

	limit := g.concurrency
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)

	for pos, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(pos, item int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[pos] = fn(item)
		}(pos, item)
	}

	wg.Wait()
	return results
}
