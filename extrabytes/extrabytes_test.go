package extrabytes

import (
	"encoding/binary"
	"math"
	"testing"
)

func makeDescriptorRecord(name string, dt DataType, options uint8, scale, offset float64) []byte {
	rec := make([]byte, descriptorRecordSize)
	rec[2] = byte(dt)
	rec[3] = options
	copy(rec[4:36], name)
	binary.LittleEndian.PutUint64(rec[112:120], math.Float64bits(scale))
	binary.LittleEndian.PutUint64(rec[136:144], math.Float64bits(offset))
	return rec
}

func TestParseAndField(t *testing.T) {
	payload := append(
		makeDescriptorRecord("intensity_scaled", TypeUint16, OptionScale, 0.01, 0),
		makeDescriptorRecord("height_above_ground", TypeFloat32, 0, 1, 0)...,
	)
	schema, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(schema.Descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(schema.Descriptors))
	}

	d, off, ok := schema.Field("intensity_scaled")
	if !ok {
		t.Fatal("expected to find intensity_scaled")
	}
	if off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}
	if d.Size() != 2 {
		t.Errorf("Size() = %d, want 2", d.Size())
	}

	d2, off2, ok := schema.Field("height_above_ground")
	if !ok {
		t.Fatal("expected to find height_above_ground")
	}
	if off2 != 2 {
		t.Errorf("offset = %d, want 2 (after the 2-byte uint16 field)", off2)
	}
	if d2.Size() != 4 {
		t.Errorf("Size() = %d, want 4", d2.Size())
	}

	if got := schema.TotalSize(); got != 6 {
		t.Errorf("TotalSize() = %d, want 6", got)
	}
}

func TestValueAppliesScaleAndOffset(t *testing.T) {
	payload := makeDescriptorRecord("scaled", TypeUint16, OptionScale|OptionOffset, 0.1, 5)
	schema, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	raw := make([]byte, 2)
	binary.LittleEndian.PutUint16(raw, 200)

	got, err := schema.Value(raw, 0)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	want := 200*0.1 + 5
	if got != want {
		t.Errorf("Value = %v, want %v", got, want)
	}
}

func TestValueDefaultsScaleAndOffsetWhenAbsent(t *testing.T) {
	payload := makeDescriptorRecord("plain", TypeInt8, 0, 99, 99) // scale/offset bits unset, so ignored
	schema, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := schema.ValueByName([]byte{200}, "plain") // 200 as int8 is -56
	if err != nil {
		t.Fatalf("ValueByName: %v", err)
	}
	if got != -56 {
		t.Errorf("got %v, want -56 (scale defaults to 1, offset to 0)", got)
	}
}

func TestParseRejectsBadLength(t *testing.T) {
	_, err := Parse(make([]byte, 10))
	if err == nil {
		t.Fatal("expected an error for a payload not a multiple of 192")
	}
}

func TestValueOutOfRangeIndex(t *testing.T) {
	payload := makeDescriptorRecord("x", TypeUint8, 0, 1, 0)
	schema, _ := Parse(payload)
	if _, err := schema.Value(nil, 5); err == nil {
		t.Fatal("expected an error for out-of-range descriptor index")
	}
}
