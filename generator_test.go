package hguid

import (
	"sync"
	"testing"
)

// steppedClock reports a fixed tick for the first hold calls and
// then advances by one tick per call.
type steppedClock struct {
	mu    sync.Mutex
	tick  uint64
	hold  int
	calls int
}

func (c *steppedClock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls > c.hold {
		c.tick++
	}
	return c.tick
}

func TestNew(t *testing.T) {
	id := New()
	if id.IsNil() {
		t.Error("New() returned Nil GUID")
	}
	if id.Version() != VersionHybrid {
		t.Errorf("New() version = %X, want %X", id.Version(), VersionHybrid)
	}
}

func TestEmpty(t *testing.T) {
	if !Empty().IsNil() {
		t.Errorf("Empty() = %v, want Nil", Empty())
	}
	if Empty() != (GUID{}) {
		t.Error("Empty() is not the zero value")
	}
}

func TestGenerator_VersionTag(t *testing.T) {
	gen := NewGenerator()
	for i := 0; i < 1000; i++ {
		id := gen.New()
		if got := id.Fields().Data3 >> 12; got != 0xB {
			t.Fatalf("Data3 top nibble = %X, want B (id %v)", got, id)
		}
		if !id.IsHybrid() {
			t.Fatalf("IsHybrid() = false for %v", id)
		}
	}
}

func TestGenerator_NoDuplicates(t *testing.T) {
	gen := NewGenerator()
	const count = 10000

	seen := make(map[GUID]bool, count)
	for i := 0; i < count; i++ {
		id := gen.New()
		if seen[id] {
			t.Fatalf("Generated duplicate GUID at index %d: %v", i, id)
		}
		seen[id] = true
	}
}

func TestGenerator_SameTick(t *testing.T) {
	clock := &steppedClock{tick: 5000, hold: 1 + TicksCapacity}
	gen := NewGenerator(
		WithTimeSource(clock),
		WithCycleCounter(CycleCounterFunc(func() uint64 { return 0 })),
		WithSeed(7),
	)

	var last uint32
	seen := make(map[GUID]bool)
	for i := 0; i < TicksCapacity; i++ {
		id := gen.New()
		d1 := id.Fields().Data1
		if d1 != uint32(5000+i+1) {
			t.Fatalf("Data1 at index %d = %d, want %d", i, d1, 5000+i+1)
		}
		if i > 0 && d1 <= last {
			t.Fatalf("multiplexed Data1 not increasing at index %d: %d <= %d", i, d1, last)
		}
		if seen[id] {
			t.Fatalf("Generated duplicate GUID within a tick at index %d", i)
		}
		seen[id] = true
		last = d1
	}
}

func TestGenerator_ConcurrentSafety(t *testing.T) {
	gen := NewGenerator()
	const goroutines = 10
	const perGoroutine = 1000

	results := make(chan GUID, goroutines*perGoroutine)
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				results <- gen.New()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[GUID]bool)
	for id := range results {
		if seen[id] {
			t.Errorf("Duplicate GUID generated in concurrent test: %v", id)
		}
		seen[id] = true
	}

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("Expected %d unique GUIDs, got %d", goroutines*perGoroutine, len(seen))
	}
}

func TestGenerator_NewBatch(t *testing.T) {
	gen := NewGenerator()

	if got := gen.NewBatch(0); got != nil {
		t.Errorf("NewBatch(0) = %v, want nil", got)
	}

	ids := gen.NewBatch(500)
	if len(ids) != 500 {
		t.Fatalf("NewBatch(500) returned %d GUIDs", len(ids))
	}
	seen := make(map[GUID]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("NewBatch() returned duplicate %v", id)
		}
		seen[id] = true
	}

	if got := len(NewBatch(3)); got != 3 {
		t.Errorf("package NewBatch(3) returned %d GUIDs", got)
	}
}

func TestGenerator_FieldsFromSources(t *testing.T) {
	clock := TimeSourceFunc(func() uint64 { return 0x1122334455667788 })
	counter := CycleCounterFunc(func() uint64 { return 0xFFFF_0000_00AB_CDEF })
	gen := NewGenerator(WithTimeSource(clock), WithCycleCounter(counter), WithSeed(1))

	f := gen.New().Fields()
	// first call on an unchanged tick takes multiplexer slot 1
	if f.Data1 != 0x55667789 {
		t.Errorf("Data1 = %#x, want %#x", f.Data1, 0x55667789)
	}
	if f.Data2 != 0xCDEF {
		t.Errorf("Data2 = %#x, want %#x", f.Data2, 0xCDEF)
	}
	if f.Data3 != 0xBAAB {
		t.Errorf("Data3 = %#x, want %#x", f.Data3, 0xBAAB)
	}
}

func TestWithSeed_Deterministic(t *testing.T) {
	a := NewGenerator(WithSeed(99))
	b := NewGenerator(WithSeed(99))
	for i := 0; i < 10; i++ {
		if fa, fb := a.New().Fields(), b.New().Fields(); fa.Data4 != fb.Data4 {
			t.Fatalf("Data4 differs for equal seeds at %d: %x vs %x", i, fa.Data4, fb.Data4)
		}
	}
}

func TestMust(t *testing.T) {
	if g := Must(Parse(sampleText)); g != sampleGUID {
		t.Errorf("Must() = %v, want %v", g, sampleGUID)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Must() did not panic on error")
		}
	}()
	Must(Parse("bogus"))
}
