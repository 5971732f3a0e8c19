package generator_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/glizzus/audiospriter/internal/generator"
)

func TestUUIDV4Generator_Next(t *testing.T) {
	regex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	gen := generator.UUIDV4Generator{}

	seen := make(map[string]struct{})
	for range 1000 {
		id, err := gen.Next()
		if err != nil {
			t.Fatal("expected no error, got:", err)
		}
		if !regex.MatchString(id) {
			t.Fatalf("expected valid UUID format, got %s", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("expected a unique ID, got duplicate: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSequenceGenerator_Next_Concurrent(t *testing.T) {
	gen := &generator.SequenceGenerator{Prefix: "run-"}

	var mu sync.Mutex
	seen := make(map[string]struct{})

	concurrency := 8
	batchSize := 250

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for range concurrency {
		go func() {
			defer wg.Done()
			for range batchSize {
				id, _ := gen.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != concurrency*batchSize {
		t.Errorf("expected %d unique IDs, got %d", concurrency*batchSize, len(seen))
	}
	if _, ok := seen["run-1"]; !ok {
		t.Error("expected the sequence to start at run-1")
	}
	if _, ok := seen["run-2000"]; !ok {
		t.Error("expected the sequence to end at run-2000")
	}
}
