package hguid

import "sync"

// Generator is a thread-safe GUID generator. A single mutex serializes the
// whole assembly of a GUID: tick multiplexing, counter sampling and the
// pseudo-random draw. The zero value is not usable; call NewGenerator.
type Generator struct {
	mu      sync.Mutex
	clock   TimeSource
	counter CycleCounter
	ticks   tickState
	node    nodeSource
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeSource replaces the wall clock used for Data1 and seeding.
func WithTimeSource(src TimeSource) Option {
	return func(g *Generator) {
		g.clock = src
	}
}

// WithCycleCounter replaces the counter sampled for Data2 and Data3.
func WithCycleCounter(c CycleCounter) Option {
	return func(g *Generator) {
		g.counter = c
	}
}

// WithSeed fixes the node generator seed instead of deriving it from the
// clock on first use. Generators sharing a seed produce the same node tails.
func WithSeed(seed uint32) Option {
	return func(g *Generator) {
		g.node.fixedSeed = true
		g.node.seed = seed
	}
}

// NewGenerator creates a generator reading the system clock and a
// monotonic nanosecond counter.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:   SystemTimeSource{},
		counter: newMonotonicCounter(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New generates a new GUID. It never fails; if more than TicksCapacity
// GUIDs are requested within one clock tick it waits for the next tick.
func (g *Generator) New() GUID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.assemble()
}

// NewBatch generates n GUIDs under a single lock acquisition.
func (g *Generator) NewBatch(n int) []GUID {
	if n <= 0 {
		return nil
	}
	out := make([]GUID, n)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range out {
		out[i] = g.assemble()
	}
	return out
}

// assemble builds one GUID; g.mu must be held.
func (g *Generator) assemble() GUID {
	var f Fields

	f.Data1 = uint32(g.ticks.next(g.clock))
	f.Data2, f.Data3 = encodeClockSequence(uint32(g.counter.Cycles()))
	g.node.fill(&f.Data4, g.clock)

	return FromFields(f)
}

var (
	defaultOnce      sync.Once
	defaultGenerator *Generator
)

func getDefault() *Generator {
	defaultOnce.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// New generates a new GUID using the package-level generator.
func New() GUID {
	return getDefault().New()
}

// NewBatch generates n GUIDs using the package-level generator.
func NewBatch(n int) []GUID {
	return getDefault().NewBatch(n)
}

// Must is a helper that wraps a call to a function returning (GUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = hguid.Must(hguid.Parse("{6f1a2b3c-0d4e-b5f6-0718-293a4b5c6d7e}"))
func Must(g GUID, err error) GUID {
	if err != nil {
		panic(err)
	}
	return g
}
