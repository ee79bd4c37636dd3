package rawio

import (
	"bytes"
	"testing"
)

func TestFixedHeaderRoundTrip(t *testing.T) {
	h := &RawHeader{
		FileSignature:         FileSignature,
		FileSourceID:          7,
		VersionMajor:          1,
		VersionMinor:          2,
		HeaderSize:            227,
		OffsetToPointData:     227,
		PointDataFormatID:     0,
		PointDataRecordLength: 20,
		XScaleFactor:          0.001,
		YScaleFactor:          0.001,
		ZScaleFactor:          0.001,
		MaxX:                  100, MinX: -100,
		MaxY: 200, MinY: -200,
		MaxZ: 50, MinZ: -50,
	}
	copy(h.SystemIdentifier[:], "test")

	var buf bytes.Buffer
	if err := h.WriteFixed(&buf); err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	if buf.Len() != FixedHeaderSize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), FixedHeaderSize)
	}

	got, err := ReadFixed(&buf)
	if err != nil {
		t.Fatalf("ReadFixed: %v", err)
	}
	if got.FileSourceID != h.FileSourceID {
		t.Errorf("FileSourceID = %d, want %d", got.FileSourceID, h.FileSourceID)
	}
	if got.OffsetToPointData != h.OffsetToPointData {
		t.Errorf("OffsetToPointData = %d, want %d", got.OffsetToPointData, h.OffsetToPointData)
	}
	if got.XScaleFactor != h.XScaleFactor {
		t.Errorf("XScaleFactor = %v, want %v", got.XScaleFactor, h.XScaleFactor)
	}
	if got.MaxX != h.MaxX || got.MinZ != h.MinZ {
		t.Errorf("bounds mismatch: MaxX=%v MinZ=%v", got.MaxX, got.MinZ)
	}
}

func TestReadFixedRejectsBadSignature(t *testing.T) {
	buf := make([]byte, FixedHeaderSize)
	copy(buf, "NOPE")
	_, err := ReadFixed(bytes.NewReader(buf))
	if _, ok := err.(*FileSignatureMismatchError); !ok {
		t.Fatalf("got %T, want *FileSignatureMismatchError", err)
	}
}

func TestTailRoundTripV14(t *testing.T) {
	h := &RawHeader{VersionMinor: 4, HeaderSize: canonicalHeaderSize(4)}
	h.StartOfWaveformDataPacketRecord = 123
	h.StartOfFirstEvlr = 99999
	h.NumberOfEvlrs = 2
	h.NumberOfPointRecords64 = 42
	h.NumberOfPointsByReturn64[0] = 10

	var buf bytes.Buffer
	if err := h.WriteTail(&buf); err != nil {
		t.Fatalf("WriteTail: %v", err)
	}

	got := &RawHeader{VersionMinor: 4, HeaderSize: canonicalHeaderSize(4)}
	if err := got.ReadTail(&buf); err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if got.StartOfFirstEvlr != h.StartOfFirstEvlr {
		t.Errorf("StartOfFirstEvlr = %d, want %d", got.StartOfFirstEvlr, h.StartOfFirstEvlr)
	}
	if got.NumberOfEvlrs != h.NumberOfEvlrs {
		t.Errorf("NumberOfEvlrs = %d, want %d", got.NumberOfEvlrs, h.NumberOfEvlrs)
	}
	if got.NumberOfPointsByReturn64[0] != 10 {
		t.Errorf("NumberOfPointsByReturn64[0] = %d, want 10", got.NumberOfPointsByReturn64[0])
	}
}

func TestReadTailRejectsShortHeaderSize(t *testing.T) {
	h := &RawHeader{VersionMinor: 2, HeaderSize: 100}
	err := h.ReadTail(bytes.NewReader(nil))
	if _, ok := err.(*HeaderSizeTooSmallError); !ok {
		t.Fatalf("got %T, want *HeaderSizeTooSmallError", err)
	}
}

func TestNumberOfPointsPrefers64Bit(t *testing.T) {
	h := &RawHeader{NumberOfPointRecords: 5, NumberOfPointRecords64: 1000}
	if got := h.NumberOfPoints(); got != 1000 {
		t.Errorf("NumberOfPoints() = %d, want 1000", got)
	}
	h2 := &RawHeader{NumberOfPointRecords: 5}
	if got := h2.NumberOfPoints(); got != 5 {
		t.Errorf("NumberOfPoints() = %d, want 5", got)
	}
}

func TestNumberOfPointsByReturnWideFoldsLegacy(t *testing.T) {
	h := &RawHeader{}
	h.NumberOfPointsByReturn[0] = 3
	h.NumberOfPointsByReturn[1] = 4
	wide := h.NumberOfPointsByReturnWide()
	if wide[0] != 3 || wide[1] != 4 {
		t.Errorf("wide = %v, want [3 4 0...]", wide)
	}
}

func TestIsCompressedAndFormatCode(t *testing.T) {
	h := &RawHeader{}
	h.SetPointFormat(3, true)
	if !h.IsCompressed() {
		t.Error("expected IsCompressed true")
	}
	if h.PointFormatCode() != 3 {
		t.Errorf("PointFormatCode() = %d, want 3", h.PointFormatCode())
	}
	h.SetPointFormat(3, false)
	if h.IsCompressed() {
		t.Error("expected IsCompressed false")
	}
}
