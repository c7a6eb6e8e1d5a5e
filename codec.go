package hguid

import (
	"encoding/hex"
	"fmt"
	"unicode"
	"unicode/utf16"
)

const (
	canonicalLen = 36
	bracedLen    = 38
)

// String returns the canonical lowercase representation of the GUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (g GUID) String() string {
	var buf [canonicalLen]byte
	encodeHex(buf[:], g)
	return string(buf[:])
}

// Braced returns the canonical representation wrapped in braces:
// {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}
func (g GUID) Braced() string {
	var buf [bracedLen]byte
	buf[0] = '{'
	encodeHex(buf[1:37], g)
	buf[37] = '}'
	return string(buf[:])
}

// Format returns g in canonical lowercase form without braces.
// It is the inverse of Parse for well-formed input.
func Format(g GUID) string {
	return g.String()
}

// encodeHex encodes GUID to its canonical hex representation
func encodeHex(dst []byte, g GUID) {
	hex.Encode(dst[0:8], g[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], g[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], g[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], g[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], g[10:16])
}

// Parse parses a GUID from its string representation.
// It accepts exactly two forms, with hex digits in either case:
//   - xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (canonical)
//   - {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}
//
// Anything else yields Nil and a *FormatError.
func Parse(s string) (GUID, error) {
	var g GUID

	body := s
	switch len(s) {
	case canonicalLen:
	case bracedLen:
		if s[0] != '{' || s[bracedLen-1] != '}' {
			return Nil, formatErr(s, "expected braces around 38-character form")
		}
		body = s[1 : bracedLen-1]
	default:
		return Nil, formatErr(s, fmt.Sprintf("length %d, expected 36 or 38", len(s)))
	}

	if body[8] != '-' || body[13] != '-' || body[18] != '-' || body[23] != '-' {
		return Nil, formatErr(s, "hyphens must separate 8-4-4-4-12 groups")
	}

	segments := [...]struct {
		dst []byte
		src string
	}{
		{g[0:4], body[0:8]},
		{g[4:6], body[9:13]},
		{g[6:8], body[14:18]},
		{g[8:10], body[19:23]},
		{g[10:16], body[24:36]},
	}
	for _, seg := range segments {
		if err := decodeHexSegment(seg.dst, seg.src); err != nil {
			return Nil, formatErr(s, "non-hexadecimal digit")
		}
	}
	return g, nil
}

// ParseBytes is like Parse but takes narrow (UTF-8) text as a byte slice.
func ParseBytes(b []byte) (GUID, error) {
	return Parse(string(b))
}

// ParseUTF16 is like Parse but takes wide (UTF-16) text.
func ParseUTF16(s []uint16) (GUID, error) {
	return Parse(string(utf16.Decode(s)))
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("hguid: Parse(%q): %v", s, err))
	}
	return g
}

// decodeHexSegment decodes a hex string segment into a byte slice
func decodeHexSegment(dst []byte, src string) error {
	if _, err := hex.Decode(dst, []byte(src)); err != nil {
		return ErrInvalidFormat
	}
	return nil
}

const base16Digits = "0123456789ABCDEF"

// FromString decodes s leniently and never fails. It exists for
// compatibility with callers that relied on malformed input silently
// becoming Nil:
//   - s must be 36 characters, or 38 with a leading '{' and trailing '}';
//     otherwise the result is Nil.
//   - every '{', '}' and '-' is removed wherever it appears.
//   - the remaining characters are read as groups of 8, 4 and 4 digits
//     followed by eight 2-digit pairs; a character that is not a hex digit,
//     or a position past the end of the input, counts as 0.
//
// New code should use Parse.
func FromString(s string) GUID {
	runes := []rune(s)
	n := len(runes)
	if n != canonicalLen && !(n == bracedLen && runes[0] == '{' && runes[n-1] == '}') {
		return Nil
	}

	digits := make([]rune, 0, 32)
	for _, r := range runes {
		if r != '{' && r != '}' && r != '-' {
			digits = append(digits, r)
		}
	}

	var f Fields
	f.Data1 = uint32(lenientHex(digits, 0, 8))
	f.Data2 = uint16(lenientHex(digits, 8, 4))
	f.Data3 = uint16(lenientHex(digits, 12, 4))
	for i := range f.Data4 {
		f.Data4[i] = byte(lenientHex(digits, 16+2*i, 2))
	}
	return FromFields(f)
}

func lenientHex(digits []rune, start, length int) uint64 {
	var v uint64
	for i := start; i < start+length; i++ {
		v <<= 4
		if i >= len(digits) {
			continue
		}
		if d := hexValue(digits[i]); d >= 0 {
			v |= uint64(d)
		}
	}
	return v
}

// hexValue returns the value of a case-insensitive hex digit, or -1.
func hexValue(r rune) int {
	r = unicode.ToUpper(r)
	for i, d := range base16Digits {
		if d == r {
			return i
		}
	}
	return -1
}
