package hguid

import "time"

// VersionHybrid is the version tag carried in the top nibble of Data3.
const VersionHybrid Version = 0xB

// CycleCounter is a free-running, high-resolution counter sampled once per
// GUID. It is an entropy source only; any monotonic or semi-random counter
// will do.
type CycleCounter interface {
	Cycles() uint64
}

// CycleCounterFunc adapts a plain function to CycleCounter.
type CycleCounterFunc func() uint64

// Cycles calls f.
func (f CycleCounterFunc) Cycles() uint64 { return f() }

// monotonicCounter counts nanoseconds on the monotonic clock since start.
type monotonicCounter struct {
	start time.Time
}

func newMonotonicCounter() *monotonicCounter {
	return &monotonicCounter{start: time.Now()}
}

func (c *monotonicCounter) Cycles() uint64 {
	return uint64(time.Since(c.start))
}

// encodeClockSequence splits a 32-bit counter sample into the Data2 and
// Data3 fields. Data2 is the low half of the sample. Data3 carries the
// version in its top nibble; its low 12 bits are the high nibble of the
// sample's third byte followed by that whole byte.
func encodeClockSequence(sample uint32) (mid, seq uint16) {
	mid = uint16(sample)
	b := byte(sample >> 16)
	seq = uint16(VersionHybrid)<<12 | uint16(b>>4)<<8 | uint16(b)
	return mid, seq
}
