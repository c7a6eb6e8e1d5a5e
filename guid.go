package hguid

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 128-bit identifier laid out as four fields in a fixed order:
//
//	bytes 0-3   Data1  time-low (32 bits)
//	bytes 4-5   Data2  time-mid (16 bits)
//	bytes 6-7   Data3  clock sequence, version in the top nibble
//	bytes 8-15  Data4  pseudo-random node
//
// Multi-byte fields are stored big-endian so that the byte order matches the
// canonical text form.
type GUID [16]byte

// Version is the 4-bit tag stored in the top nibble of Data3.
type Version byte

// Nil is the empty GUID (all zeros)
var Nil GUID

// Fields is the structured view of a GUID.
type Fields struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Empty returns the all-zero GUID.
func Empty() GUID {
	return Nil
}

// FromFields assembles a GUID from its four fields.
func FromFields(f Fields) GUID {
	var g GUID
	binary.BigEndian.PutUint32(g[0:4], f.Data1)
	binary.BigEndian.PutUint16(g[4:6], f.Data2)
	binary.BigEndian.PutUint16(g[6:8], f.Data3)
	copy(g[8:], f.Data4[:])
	return g
}

// Fields splits the GUID into its four fields.
func (g GUID) Fields() Fields {
	f := Fields{
		Data1: binary.BigEndian.Uint32(g[0:4]),
		Data2: binary.BigEndian.Uint16(g[4:6]),
		Data3: binary.BigEndian.Uint16(g[6:8]),
	}
	copy(f.Data4[:], g[8:])
	return f
}

// Version returns the version tag of the GUID
func (g GUID) Version() Version {
	return Version(g[6] >> 4)
}

// IsHybrid reports whether the GUID carries the version tag written by Generator.
func (g GUID) IsHybrid() bool {
	return g.Version() == VersionHybrid
}

// MixedEndianBytes returns the in-memory layout of a Windows GUID struct:
// Data1, Data2 and Data3 little-endian, Data4 unchanged.
func (g GUID) MixedEndianBytes() [16]byte {
	f := g.Fields()
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], f.Data1)
	binary.LittleEndian.PutUint16(b[4:6], f.Data2)
	binary.LittleEndian.PutUint16(b[6:8], f.Data3)
	copy(b[8:], f.Data4[:])
	return b
}

// FromMixedEndian decodes the in-memory layout of a Windows GUID struct.
func FromMixedEndian(b []byte) (GUID, error) {
	if len(b) != 16 {
		return Nil, ErrInvalidLength
	}
	f := Fields{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
	}
	copy(f.Data4[:], b[8:])
	return FromFields(f), nil
}

// UUID converts the GUID to a github.com/google/uuid value with the same bytes.
func (g GUID) UUID() uuid.UUID {
	return uuid.UUID(g)
}

// FromUUID converts a github.com/google/uuid value to a GUID with the same bytes.
func FromUUID(u uuid.UUID) GUID {
	return GUID(u)
}

// Bytes returns the GUID as a byte slice
func (g GUID) Bytes() []byte {
	return g[:]
}

// IsNil returns true if the GUID is the empty GUID
func (g GUID) IsNil() bool {
	return g == Nil
}

// MarshalText implements the encoding.TextMarshaler interface
func (g GUID) MarshalText() ([]byte, error) {
	var buf [36]byte
	encodeHex(buf[:], g)
	return buf[:], nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (g *GUID) UnmarshalText(data []byte) error {
	id, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*g = id
	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (g GUID) MarshalBinary() ([]byte, error) {
	return g[:], nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (g *GUID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return ErrInvalidLength
	}
	copy(g[:], data)
	return nil
}

// Scan implements the sql.Scanner interface for database compatibility
func (g *GUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		id, err := Parse(src)
		if err != nil {
			return err
		}
		*g = id
		return nil
	case []byte:
		if len(src) == 16 {
			copy(g[:], src)
			return nil
		}
		if len(src) == 0 {
			return nil
		}
		id, err := ParseBytes(src)
		if err != nil {
			return err
		}
		*g = id
		return nil
	default:
		return fmt.Errorf("hguid: cannot scan type %T into GUID", src)
	}
}

// Value implements the driver.Valuer interface for database compatibility
func (g GUID) Value() (driver.Value, error) {
	return g.String(), nil
}

// Compare returns an integer comparing two GUIDs lexicographically.
// The result will be 0 if g==other, -1 if g < other, and +1 if g > other.
func (g GUID) Compare(other GUID) int {
	for i := 0; i < 16; i++ {
		if g[i] < other[i] {
			return -1
		}
		if g[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Equal returns true if g and other represent the same GUID
func (g GUID) Equal(other GUID) bool {
	return g == other
}
