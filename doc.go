// Package hguid generates and parses 128-bit GUIDs built from a hybrid of a
// time-based layout (in the manner of UUID version 1) and a pseudo-random
// tail (in the manner of UUID version 4), tagged with version 0xB.
//
// Layout, left to right:
//
//	Data1  32 bits  low word of a 100ns timestamp, offset by a per-tick
//	                multiplexer so up to 1024 GUIDs can share one tick
//	Data2  16 bits  low half of a high-resolution counter sample
//	Data3  16 bits  version nibble 0xB followed by 12 counter bits
//	Data4  64 bits  pseudo-random bytes
//
// Basic Usage:
//
//	// Generate a new GUID
//	id := hguid.New()
//	fmt.Println(id) // 5f3c9a10-1e2d-b11a-6b2e-d4c0a9f17733
//
//	// Parse a GUID, with or without braces
//	id, err := hguid.Parse("{5F3C9A10-1E2D-B11A-6B2E-D4C0A9F17733}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Custom Generator:
//
//	// Clocks, counters and the node seed can be replaced, which is mostly
//	// useful in tests
//	gen := hguid.NewGenerator(hguid.WithSeed(42))
//	ids := gen.NewBatch(100)
//
// Thread Safety:
//
// Generation is serialized by a mutex held for the whole assembly of a GUID.
// Parsing and formatting touch no shared state. When more than 1024 GUIDs are
// requested within a single 100ns tick, generation waits for the clock to
// advance rather than repeat a value.
//
// Randomness:
//
// The Data4 tail comes from math/rand seeded once from the clock. It is not
// suitable for security tokens, and uniqueness is only meaningful within one
// process.
//
// Compatibility:
//
// Parse reports malformed text with a *FormatError. FromString keeps the
// older lenient behavior, returning Nil for inputs of the wrong shape and
// reading stray characters as zero digits.
package hguid
