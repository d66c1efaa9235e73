package parallel

import (
	"sync"
	"testing"
)

// collectRanges runs Chunks and records every produced range.
func collectRanges(n, grain int) [][2]int {
	var mu sync.Mutex
	var ranges [][2]int
	Chunks(n, grain, func(start, end int) {
		mu.Lock()
		ranges = append(ranges, [2]int{start, end})
		mu.Unlock()
	})
	return ranges
}

func TestChunks_CoversExactly(t *testing.T) {
	for _, n := range []int{1, 7, 64, 1000, 4096} {
		covered := make([]bool, n)
		var mu sync.Mutex
		Chunks(n, 8, func(start, end int) {
			mu.Lock()
			defer mu.Unlock()
			for i := start; i < end; i++ {
				if covered[i] {
					t.Errorf("n=%d: index %d covered twice", n, i)
				}
				covered[i] = true
			}
		})
		for i, ok := range covered {
			if !ok {
				t.Fatalf("n=%d: index %d not covered", n, i)
			}
		}
	}
}

func TestChunks_ZeroAndNegative(t *testing.T) {
	called := false
	Chunks(0, 8, func(start, end int) { called = true })
	Chunks(-5, 8, func(start, end int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}

func TestChunks_SmallInputStaysSequential(t *testing.T) {
	// Below one grain there is exactly one range, run inline.
	ranges := collectRanges(10, 100)
	if len(ranges) != 1 || ranges[0] != [2]int{0, 10} {
		t.Errorf("ranges = %v, want one range [0, 10)", ranges)
	}
}

func TestChunks_GrainFloor(t *testing.T) {
	// Every produced range holds at least grain elements, except that a
	// single range may cover everything.
	const n, grain = 1024, 64
	for _, r := range collectRanges(n, grain) {
		if size := r[1] - r[0]; size < grain && size != n {
			t.Errorf("range %v smaller than grain %d", r, grain)
		}
	}
}

func TestChunks_ParallelSum(t *testing.T) {
	const n = 1 << 16
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}

	var mu sync.Mutex
	total := 0
	Chunks(n, 1024, func(start, end int) {
		sum := 0
		for i := start; i < end; i++ {
			sum += data[i]
		}
		mu.Lock()
		total += sum
		mu.Unlock()
	})

	want := n * (n - 1) / 2
	if total != want {
		t.Errorf("total = %d, want %d", total, want)
	}
}

func TestChunks_DisjointWrites(t *testing.T) {
	// Chunks guarantees non-overlapping ranges, so concurrent writes
	// into one slice need no locking.
	const n = 1 << 15
	out := make([]byte, n)
	Chunks(n, 512, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = byte(i)
		}
	})
	for i, b := range out {
		if b != byte(i) {
			t.Fatalf("out[%d] = %d, want %d", i, b, byte(i))
		}
	}
}
