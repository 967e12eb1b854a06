package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// RunThreadPool dispatches tasks across workerCount goroutines that each
// pull the next task index from a shared atomic counter (§4.F, §9 — pass
// tasks by integer index, transfer result ownership in messages, not
// shared live objects). Tasks are consumed in the order given by tasks;
// callers that want large-first scheduling (§4.D) must pre-sort tasks.
func RunThreadPool(ctx context.Context, tasks []manifest.StorageObject, workerCount int, process ProcessFunc, onProgress ProgressFunc) []manifest.Result {
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}
	if workerCount == 0 {
		return nil
	}

	results := make([]manifest.Result, len(tasks))
	var nextIndex atomic.Int64
	var completed atomic.Int64
	total := len(tasks)

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(nextIndex.Add(1) - 1)
				if i >= total {
					return
				}
				results[i] = process(ctx, tasks[i])
				done := completed.Add(1)
				if onProgress != nil {
					onProgress(int(done), total)
				}
			}
		}()
	}
	wg.Wait()
	return results
}
