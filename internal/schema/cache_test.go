package schema

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeLister struct {
	calls int32
	set   Set
	err   error
	delay time.Duration
}

func (f *fakeLister) ListTableSchemas(ctx context.Context, datasetID string) (Set, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

func testSet() Set {
	return Set{
		"calls": {
			{Name: "direction", Type: "STRING"},
			{Name: "timestamp", Type: "TIMESTAMP"},
		},
		"agents": {
			{Name: "id", Type: "INTEGER"},
			{Name: "name", Type: "STRING"},
		},
	}
}

func TestEnsureRequiresDataset(t *testing.T) {
	c := NewCache()
	f := &fakeLister{set: testSet()}

	_, err := c.Ensure(context.Background(), f, "")
	if !errors.Is(err, ErrDatasetNotConfigured) {
		t.Fatalf("expected ErrDatasetNotConfigured, got %v", err)
	}
	if f.calls != 0 {
		t.Errorf("expected no walk without a dataset, got %d calls", f.calls)
	}
}

func TestEnsureIdempotent(t *testing.T) {
	c := NewCache()
	f := &fakeLister{set: testSet()}

	first, err := c.Ensure(context.Background(), f, "analytics")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := c.Ensure(context.Background(), f, "analytics")
	if err != nil {
		t.Fatalf("Ensure (second): %v", err)
	}

	if f.calls != 1 {
		t.Errorf("expected exactly one walk across two Ensure calls, got %d", f.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected the second Ensure to return the same mapping")
	}
	if len(first["calls"]) != 2 || first["calls"][0].Name != "direction" {
		t.Errorf("unexpected columns for 'calls': %+v", first["calls"])
	}
}

func TestEnsureEmptyDatasetWalksOnce(t *testing.T) {
	c := NewCache()
	f := &fakeLister{set: Set{}}

	first, err := c.Ensure(context.Background(), f, "analytics")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(first) != 0 {
		t.Errorf("expected no tables, got %+v", first)
	}
	if _, err := c.Ensure(context.Background(), f, "analytics"); err != nil {
		t.Fatalf("Ensure (second): %v", err)
	}

	if f.calls != 1 {
		t.Errorf("expected exactly one walk across two Ensure calls, got %d", f.calls)
	}
	if c.Snapshot() == nil {
		t.Error("expected a walked dataset with no tables to count as populated")
	}

	// Invalidation still returns the cache to the unpopulated state.
	c.Invalidate()
	if c.Snapshot() != nil {
		t.Error("expected empty cache after Invalidate")
	}
}

func TestEnsureFailureLeavesCacheEmpty(t *testing.T) {
	c := NewCache()
	boom := errors.New("listing blew up")

	_, err := c.Ensure(context.Background(), &fakeLister{err: boom}, "analytics")
	if !errors.Is(err, boom) {
		t.Fatalf("expected walk error to propagate, got %v", err)
	}
	if c.Snapshot() != nil {
		t.Error("expected cache to stay empty after a failed walk")
	}

	// A later Ensure against a healthy lister recovers.
	got, err := c.Ensure(context.Background(), &fakeLister{set: testSet()}, "analytics")
	if err != nil {
		t.Fatalf("Ensure after failure: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 tables after recovery, got %d", len(got))
	}
}

func TestRefreshReplacesWholeMapping(t *testing.T) {
	c := NewCache()

	if _, err := c.Ensure(context.Background(), &fakeLister{set: testSet()}, "analytics"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	replacement := Set{"orders": {{Name: "id", Type: "INTEGER"}}}
	got, names, err := c.Refresh(context.Background(), &fakeLister{set: replacement}, "analytics")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("expected refreshed mapping, got %+v", got)
	}
	if !reflect.DeepEqual(names, []string{"orders"}) {
		t.Errorf("expected sorted names [orders], got %v", names)
	}
	if !reflect.DeepEqual(c.Snapshot(), replacement) {
		t.Error("expected snapshot to show the replacement mapping")
	}
}

func TestRefreshSortsTableNames(t *testing.T) {
	c := NewCache()
	_, names, err := c.Refresh(context.Background(), &fakeLister{set: testSet()}, "analytics")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"agents", "calls"}) {
		t.Errorf("expected sorted table names, got %v", names)
	}
}

func TestRefreshFailureKeepsPreviousMapping(t *testing.T) {
	c := NewCache()
	before := testSet()

	if _, err := c.Ensure(context.Background(), &fakeLister{set: before}, "analytics"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	_, _, err := c.Refresh(context.Background(), &fakeLister{err: errors.New("mid-walk failure")}, "analytics")
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if !reflect.DeepEqual(c.Snapshot(), before) {
		t.Error("expected cache to keep the previous mapping after a failed refresh")
	}
}

func TestInvalidateForcesRewalk(t *testing.T) {
	c := NewCache()
	f := &fakeLister{set: testSet()}

	if _, err := c.Ensure(context.Background(), f, "analytics"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	c.Invalidate()
	if c.Snapshot() != nil {
		t.Fatal("expected empty cache after Invalidate")
	}
	if _, err := c.Ensure(context.Background(), f, "analytics"); err != nil {
		t.Fatalf("Ensure after invalidate: %v", err)
	}
	if f.calls != 2 {
		t.Errorf("expected a second walk after invalidation, got %d calls", f.calls)
	}
}

func TestConcurrentEnsureSharesOneWalk(t *testing.T) {
	c := NewCache()
	f := &fakeLister{set: testSet(), delay: 20 * time.Millisecond}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Ensure(context.Background(), f, "analytics"); err != nil {
				t.Errorf("Ensure: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&f.calls); got != 1 {
		t.Errorf("expected one shared walk for concurrent Ensure calls, got %d", got)
	}
}
