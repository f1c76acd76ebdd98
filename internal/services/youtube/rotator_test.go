package youtube

import (
	"sync"
	"testing"
)

func TestRotatorWrapsAfterPoolSize(t *testing.T) {
	rotator, err := NewKeyRotator([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewKeyRotator returned error: %v", err)
	}
	first := make([]string, 0, 3)
	for i := 0; i < rotator.Size(); i++ {
		first = append(first, rotator.Next())
	}
	if first[0] != "a" || first[1] != "b" || first[2] != "c" {
		t.Fatalf("unexpected rotation order: %v", first)
	}
	// poolSize calls return the cursor to the start.
	if got := rotator.Next(); got != "a" {
		t.Fatalf("expected wrap to a, got %q", got)
	}
}

func TestRotatorPersistsAcrossCalls(t *testing.T) {
	rotator, err := NewKeyRotator([]string{"a", "b"})
	if err != nil {
		t.Fatalf("NewKeyRotator returned error: %v", err)
	}
	rotator.Next()
	if got := rotator.Next(); got != "b" {
		t.Fatalf("cursor did not persist, got %q", got)
	}
}

func TestRotatorRejectsEmptyPool(t *testing.T) {
	if _, err := NewKeyRotator(nil); err == nil {
		t.Fatal("expected error for empty pool")
	}
}

func TestRotatorConcurrentUse(t *testing.T) {
	rotator, err := NewKeyRotator([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("NewKeyRotator returned error: %v", err)
	}
	const workers = 8
	const perWorker = 100
	counts := make([]map[string]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		counts[i] = make(map[string]int)
		wg.Add(1)
		go func(seen map[string]int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				seen[rotator.Next()]++
			}
		}(counts[i])
	}
	wg.Wait()

	total := make(map[string]int)
	for _, seen := range counts {
		for key, n := range seen {
			total[key] += n
		}
	}
	// workers*perWorker is a multiple of the pool size, so the round-robin
	// must distribute exactly evenly.
	for key, n := range total {
		if n != workers*perWorker/4 {
			t.Fatalf("uneven distribution for %q: %d", key, n)
		}
	}
}
