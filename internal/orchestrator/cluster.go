package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// workerProc is one self-exec'd child process and its IPC pipes. Requests
// are pipelined: writeMu only serializes frame writes, and a dedicated
// receiver goroutine routes each reply back to its waiting dispatch call by
// frame index, so up to workerConcurrency tasks can be in flight on one
// child at once (§4.F).
type workerProc struct {
	id      int
	cmd     *exec.Cmd
	stdin   *bufio.Writer
	stdout  *bufio.Reader
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int]chan frame
}

// RunProcessPool re-execs the current binary workerCount times with
// CLUSTER_WORKER=true/WORKER_ID=<n> (§6), hands each child tasks over
// gob-encoded stdin/stdout frames, and collects results. Each worker runs
// up to workerConcurrency tasks concurrently via pipelined dispatch (§4.F,
// §5).
func RunProcessPool(ctx context.Context, tasks []manifest.StorageObject, workerCount, workerConcurrency int, extraEnv []string, onProgress ProgressFunc) ([]manifest.Result, error) {
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}
	if workerCount == 0 {
		return nil, nil
	}
	if workerConcurrency <= 0 {
		workerConcurrency = 1
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve self executable: %w", err)
	}

	workers := make([]*workerProc, 0, workerCount)
	for i := 0; i < workerCount; i++ {
		w, err := spawnWorker(self, i, extraEnv)
		if err != nil {
			stopWorkers(workers)
			return nil, fmt.Errorf("spawn worker %d: %w", i, err)
		}
		if _, err := readFrame(w.stdout); err != nil {
			stopWorkers(workers)
			return nil, fmt.Errorf("worker %d did not become ready: %w", i, err)
		}
		w.startReceiver()
		workers = append(workers, w)
	}
	defer stopWorkers(workers)

	results := make([]manifest.Result, len(tasks))
	nextIndex := 0
	var mu sync.Mutex
	var completed int
	total := len(tasks)

	var wg sync.WaitGroup
	for _, w := range workers {
		sem := make(chan struct{}, workerConcurrency)
		var inner sync.WaitGroup
		wg.Add(1)
		go func(w *workerProc) {
			defer wg.Done()
			for {
				mu.Lock()
				if nextIndex >= total {
					mu.Unlock()
					break
				}
				i := nextIndex
				nextIndex++
				mu.Unlock()

				obj := tasks[i]
				sem <- struct{}{}
				inner.Add(1)
				go func(i int, obj manifest.StorageObject) {
					defer inner.Done()
					defer func() { <-sem }()

					res, err := w.dispatch(i, obj)
					if err != nil {
						res = manifest.Result{Type: manifest.ProcessFailed, Key: obj.Key, Err: err}
					}
					results[i] = res

					mu.Lock()
					completed++
					done := completed
					mu.Unlock()
					if onProgress != nil {
						onProgress(done, total)
					}
				}(i, obj)
			}
			inner.Wait()
		}(w)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return results, ctx.Err()
	}
	return results, nil
}

func spawnWorker(self string, id int, extraEnv []string) (*workerProc, error) {
	cmd := exec.Command(self)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Env = append(cmd.Env, "CLUSTER_WORKER=true", fmt.Sprintf("WORKER_ID=%d", id))
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &workerProc{
		id:      id,
		cmd:     cmd,
		stdin:   bufio.NewWriter(stdin),
		stdout:  bufio.NewReader(stdout),
		pending: make(map[int]chan frame),
	}, nil
}

// startReceiver reads reply frames off stdout until the pipe closes,
// routing each one to the dispatch call waiting on its frame index.
func (w *workerProc) startReceiver() {
	go func() {
		for {
			f, err := readFrame(w.stdout)
			if err != nil {
				w.failPending()
				return
			}
			w.pendingMu.Lock()
			ch, ok := w.pending[f.Index]
			delete(w.pending, f.Index)
			w.pendingMu.Unlock()
			if ok {
				ch <- f
			}
		}
	}()
}

func (w *workerProc) failPending() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	for idx, ch := range w.pending {
		close(ch)
		delete(w.pending, idx)
	}
}

func (w *workerProc) dispatch(index int, obj manifest.StorageObject) (manifest.Result, error) {
	reply := make(chan frame, 1)
	w.pendingMu.Lock()
	w.pending[index] = reply
	w.pendingMu.Unlock()

	w.writeMu.Lock()
	err := writeFrame(w.stdin, frame{
		Kind: msgTask, Index: index, Key: obj.Key, Size: obj.Size,
		LastModified: obj.LastModified, ETag: obj.ETag,
	})
	w.writeMu.Unlock()
	if err != nil {
		w.pendingMu.Lock()
		delete(w.pending, index)
		w.pendingMu.Unlock()
		return manifest.Result{}, fmt.Errorf("send task to worker %d: %w", w.id, err)
	}

	f, ok := <-reply
	if !ok {
		return manifest.Result{}, fmt.Errorf("worker %d exited unexpectedly", w.id)
	}
	return frameToResult(f), nil
}

func stopWorkers(workers []*workerProc) {
	for _, w := range workers {
		w.writeMu.Lock()
		_ = writeFrame(w.stdin, frame{Kind: msgShutdown})
		w.writeMu.Unlock()
	}
	for _, w := range workers {
		_ = w.cmd.Wait()
	}
}

// WorkerLoop is the child-process entry point (invoked from main when
// config.IsClusterWorker() is true): read task frames from stdin, run up to
// concurrency of them at once, write result frames to stdout as each
// finishes, until a shutdown frame or EOF arrives. Frames carry the
// dispatching index so replies may complete out of order (§4.F).
func WorkerLoop(ctx context.Context, lookup func(key string) (manifest.StorageObject, bool), process ProcessFunc, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	var writeMu sync.Mutex

	if err := writeFrame(out, frame{Kind: msgReady}); err != nil {
		return fmt.Errorf("send ready frame: %w", err)
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		f, err := readFrame(in)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read task frame: %w", err)
		}
		switch f.Kind {
		case msgShutdown:
			return nil
		case msgTask:
			obj, ok := lookup(f.Key)
			if !ok {
				obj = manifest.StorageObject{Key: f.Key, Size: f.Size, LastModified: f.LastModified, ETag: f.ETag}
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(f frame, obj manifest.StorageObject) {
				defer wg.Done()
				defer func() { <-sem }()
				res := process(ctx, obj)
				writeMu.Lock()
				_ = writeFrame(out, resultToFrame(f.Index, f.Key, res))
				writeMu.Unlock()
			}(f, obj)
		}
	}
}
