package hguid

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestGUID_Fields(t *testing.T) {
	f := sampleGUID.Fields()
	want := Fields{
		Data1: 0xf47ac10b,
		Data2: 0x58cc,
		Data3: 0xb372,
		Data4: [8]byte{0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79},
	}
	if f != want {
		t.Errorf("Fields() = %+v, want %+v", f, want)
	}
	if g := FromFields(f); g != sampleGUID {
		t.Errorf("FromFields() = %v, want %v", g, sampleGUID)
	}
}

func TestGUID_Version(t *testing.T) {
	if sampleGUID.Version() != VersionHybrid {
		t.Errorf("Version() = %X, want %X", sampleGUID.Version(), VersionHybrid)
	}
	v4 := MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if v4.IsHybrid() {
		t.Error("IsHybrid() = true for a version 4 GUID")
	}
}

func TestGUID_MixedEndian(t *testing.T) {
	b := sampleGUID.MixedEndianBytes()
	want := [16]byte{0x0b, 0xc1, 0x7a, 0xf4, 0xcc, 0x58, 0x72, 0xb3, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	if b != want {
		t.Errorf("MixedEndianBytes() = %x, want %x", b, want)
	}

	g, err := FromMixedEndian(b[:])
	if err != nil {
		t.Fatalf("FromMixedEndian() error = %v", err)
	}
	if g != sampleGUID {
		t.Errorf("FromMixedEndian() = %v, want %v", g, sampleGUID)
	}

	if _, err := FromMixedEndian(b[:3]); err != ErrInvalidLength {
		t.Errorf("FromMixedEndian() error = %v, want %v", err, ErrInvalidLength)
	}
}

func TestGUID_UUIDInterop(t *testing.T) {
	u := sampleGUID.UUID()
	if u.String() != sampleText {
		t.Errorf("UUID().String() = %v, want %v", u.String(), sampleText)
	}

	parsed := uuid.MustParse(sampleText)
	if g := FromUUID(parsed); g != sampleGUID {
		t.Errorf("FromUUID() = %v, want %v", g, sampleGUID)
	}
}

func TestGUID_IsNil(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("Nil GUID should return true for IsNil()")
	}
	if sampleGUID.IsNil() {
		t.Error("Non-nil GUID should return false for IsNil()")
	}
}

func TestGUID_MarshalUnmarshalText(t *testing.T) {
	text, err := sampleGUID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != sampleText {
		t.Errorf("MarshalText() = %s, want %s", text, sampleText)
	}

	var g GUID
	if err := g.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if g != sampleGUID {
		t.Errorf("Marshal/Unmarshal mismatch: got %v, want %v", g, sampleGUID)
	}

	if err := g.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText() accepted malformed text")
	}
}

func TestGUID_MarshalUnmarshalBinary(t *testing.T) {
	data, err := sampleGUID.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != 16 {
		t.Errorf("MarshalBinary() length = %d, want 16", len(data))
	}

	var g GUID
	if err := g.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if g != sampleGUID {
		t.Errorf("Marshal/Unmarshal mismatch: got %v, want %v", g, sampleGUID)
	}

	if err := g.UnmarshalBinary(data[:8]); err != ErrInvalidLength {
		t.Errorf("UnmarshalBinary() error = %v, want %v", err, ErrInvalidLength)
	}
}

func TestGUID_JSON(t *testing.T) {
	type record struct {
		ID GUID `json:"id"`
	}

	data, err := json.Marshal(record{ID: sampleGUID})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"id":"` + sampleText + `"}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var r record
	if err := json.Unmarshal([]byte(`{"id":"{`+sampleText+`}"}`), &r); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if r.ID != sampleGUID {
		t.Errorf("json.Unmarshal() = %v, want %v", r.ID, sampleGUID)
	}
}

func TestGUID_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    GUID
		wantErr bool
	}{
		{
			name:  "string input",
			input: sampleText,
			want:  sampleGUID,
		},
		{
			name:  "byte slice input - 16 bytes",
			input: sampleGUID.Bytes(),
			want:  sampleGUID,
		},
		{
			name:  "byte slice input - string format",
			input: []byte(sampleText),
			want:  sampleGUID,
		},
		{
			name:  "nil input",
			input: nil,
			want:  Nil,
		},
		{
			name:    "malformed string",
			input:   "1234",
			wantErr: true,
		},
		{
			name:    "invalid type",
			input:   123,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g GUID
			err := g.Scan(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && g != tt.want {
				t.Errorf("Scan() = %v, want %v", g, tt.want)
			}
		})
	}
}

func TestGUID_Value(t *testing.T) {
	val, err := sampleGUID.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	str, ok := val.(string)
	if !ok {
		t.Fatalf("Value() returned non-string type: %T", val)
	}
	if str != sampleText {
		t.Errorf("Value() = %v, want %v", str, sampleText)
	}
}

func TestGUID_CompareEqual(t *testing.T) {
	a := GUID{0x01}
	b := GUID{0x02}

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(GUID{0x01}) != 0 {
		t.Error("Compare() ordering is wrong")
	}
	if !a.Equal(GUID{0x01}) || a.Equal(b) {
		t.Error("Equal() is wrong")
	}
}

func TestGUID_Bytes(t *testing.T) {
	b := sampleGUID.Bytes()
	if !bytes.Equal(b, sampleGUID[:]) {
		t.Error("Bytes() did not return correct byte slice")
	}
}
