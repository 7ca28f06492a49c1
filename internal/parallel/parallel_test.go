package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 16

	var counter int64
	n := 1000
	seen := make([]int32, n)

	For(n, func(i int) {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, c := range seen {
		if c != 1 {
			t.Errorf("Index %d visited %d times", i, c)
		}
	}
}

func TestForRangeCoversInput(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 3}

	var total int64
	var chunks int64
	ForRange(25, func(start, end int) {
		atomic.AddInt64(&chunks, 1)
		atomic.AddInt64(&total, int64(end-start))
	}, cfg)

	if total != 25 {
		t.Errorf("Expected 25 elements, got %d", total)
	}
	if chunks < 2 {
		t.Errorf("Expected work to be split, got %d chunk(s)", chunks)
	}
}

func TestForRange_Empty(t *testing.T) {
	called := false
	ForRange(0, func(_, _ int) { called = true }, DefaultConfig())
	if called {
		t.Error("f called for empty range")
	}
}

func TestForGrid(t *testing.T) {
	cfg := DefaultConfig()

	rows, cols := 4, 8
	results := make([][]bool, rows)
	for r := range results {
		results[r] = make([]bool, cols)
	}

	ForGrid(rows, cols, func(r, c int) {
		results[r][c] = true
	}, cfg)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !results[r][c] {
				t.Errorf("Missing result at [%d][%d]", r, c)
			}
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
}

func TestFor_SmallInput(t *testing.T) {
	// Inputs below two chunks run as one call.
	cfg := DefaultConfig()

	var calls int64
	ForRange(cfg.MinChunkSize, func(_, _ int) {
		atomic.AddInt64(&calls, 1)
	}, cfg)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 1 << 16

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, Sequential())
		}
	})
}
