package parallel

import (
	"runtime"
	"sync"
)

var (
	sharedOnce sync.Once
	shared     *WorkerPool
)

// sharedPool builds the process-wide pool on first use, so programs that
// never touch a large surface start no workers.
func sharedPool() *WorkerPool {
	sharedOnce.Do(func() {
		shared = NewWorkerPool(runtime.GOMAXPROCS(0))
	})
	return shared
}

// Chunks splits [0, n) into contiguous ranges of at least grain elements
// and runs fn over them on the shared pool. The ranges cover [0, n)
// exactly and never overlap, so fn may write freely within its range.
// Inputs too small to fill more than one chunk run on the calling
// goroutine.
//
// Chunks must not be called from inside fn; the pool blocks the caller
// until every chunk has run.
func Chunks(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if grain < 1 {
		grain = 1
	}

	chunks := n / grain
	if workers := runtime.GOMAXPROCS(0); chunks > workers {
		chunks = workers
	}
	if chunks <= 1 {
		fn(0, n)
		return
	}

	size := (n + chunks - 1) / chunks
	work := make([]func(), 0, chunks)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		s, e := start, end
		work = append(work, func() { fn(s, e) })
	}
	sharedPool().ExecuteAll(work)
}
