// Package orchestrator dispatches per-photo pipeline tasks across a bounded
// pool of workers, either OS threads (goroutines) within this process or
// child processes communicating over gob-encoded pipes (§4.F, §5).
package orchestrator

import (
	"context"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// Task is one unit of dispatchable work: process a single storage object.
type Task struct {
	Index int
	Obj   manifest.StorageObject
}

// ProgressFunc reports live run progress: tasks completed so far and the
// total task count.
type ProgressFunc func(completed, total int)

// ProcessFunc runs one storage object's pipeline to completion. It never
// returns a Go error for per-photo failures (§7); those are carried in
// manifest.Result.Err.
type ProcessFunc func(ctx context.Context, obj manifest.StorageObject) manifest.Result
