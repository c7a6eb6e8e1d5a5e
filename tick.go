package hguid

import "runtime"

// TicksCapacity is the number of GUIDs that may share one 100ns tick.
const TicksCapacity = 1024

// tickState disambiguates GUIDs requested within the same tick.
// It is not safe for concurrent use; the owning Generator serializes access.
type tickState struct {
	initialized bool
	lastTick    uint64
	multiplexer uint16
}

// next returns the current tick, offset by a per-tick counter when the
// tick has not advanced since the previous call. Once the counter reaches
// TicksCapacity it polls src until the tick moves on.
func (s *tickState) next(src TimeSource) uint64 {
	if !s.initialized {
		s.lastTick = src.Ticks()
		s.multiplexer = 0
		s.initialized = true
	}

	for {
		now := src.Ticks()

		if now != s.lastTick {
			s.lastTick = now
			s.multiplexer = 0
			return now
		}

		if s.multiplexer < TicksCapacity {
			s.multiplexer++
			return now + uint64(s.multiplexer)
		}

		// Tick exhausted: yield instead of spinning hot until it advances
		runtime.Gosched()
	}
}
