package hguid

import (
	"encoding/base64"
	"encoding/hex"
)

// EncodeToHex encodes the GUID as 32 lowercase hex digits with no hyphens
func (g GUID) EncodeToHex() string {
	return hex.EncodeToString(g[:])
}

// DecodeFromHex decodes 32 hex digits (either case) into a GUID
func DecodeFromHex(s string) (GUID, error) {
	var g GUID
	if len(s) != 32 {
		return Nil, formatErr(s, "expected 32 hex digits")
	}
	if _, err := hex.Decode(g[:], []byte(s)); err != nil {
		return Nil, formatErr(s, "non-hexadecimal digit")
	}
	return g, nil
}

// EncodeToBase64 encodes the GUID as URL-safe base64 without padding (22 characters)
func (g GUID) EncodeToBase64() string {
	return base64.RawURLEncoding.EncodeToString(g[:])
}

// DecodeFromBase64 decodes URL-safe unpadded base64 into a GUID
func DecodeFromBase64(s string) (GUID, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Nil, formatErr(s, "invalid base64")
	}
	return FromBytes(data)
}

// FromBytes creates a GUID from its 16-byte big-endian field layout
func FromBytes(b []byte) (GUID, error) {
	var g GUID
	if len(b) != 16 {
		return Nil, ErrInvalidLength
	}
	copy(g[:], b)
	return g, nil
}

// MustFromBytes is like FromBytes but panics on error
func MustFromBytes(b []byte) GUID {
	g, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return g
}
