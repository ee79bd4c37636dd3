package copc

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-las/las"
	"github.com/go-las/las/internal/rawio"
	"github.com/go-las/las/laz"
)

// seekBuf adapts a byte slice into an io.ReadSeeker for tests, since
// EntryReader needs to Seek to an entry's recorded offset.
type seekBuf struct {
	data []byte
	pos  int64
}

func (s *seekBuf) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = int64(len(s.data))
	}
	s.pos = base + offset
	return s.pos, nil
}

func identityTransforms() las.Transforms {
	return las.Transforms{
		X: las.Transform{Scale: 1, Offset: 0},
		Y: las.Transform{Scale: 1, Offset: 0},
		Z: las.Transform{Scale: 1, Offset: 0},
	}
}

// decompressorFactory adapts laz.NewDecompressor to las.DecompressorFactory.
func decompressorFactory(src io.ReadSeeker, pointLength int, schema []byte) (las.Decompressor, error) {
	return laz.NewDecompressor(src, pointLength, schema)
}

func laszipVlr(header *las.Header) {
	header.Vlrs = []las.Vlr{{UserID: las.LaszipVlrUserID, RecordID: las.LaszipVlrRecordID}}
}

func TestEntryReaderReadEntry(t *testing.T) {
	format, err := las.NewPointFormat(0, 0)
	if err != nil {
		t.Fatalf("NewPointFormat: %v", err)
	}
	layout := rawio.PointLayout{}

	var buf bytes.Buffer
	buf.WriteByte(0xAA) // padding before the point chunk, so Offset is non-zero
	chunkStart := int64(buf.Len())

	comp, err := laz.NewCompressor(&buf, layout.Length(), nil)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	raw1 := &rawio.RawPoint{X: 10, Y: 20, Z: 30, Intensity: 1}
	raw2 := &rawio.RawPoint{X: 40, Y: 50, Z: 60, Intensity: 2}
	for _, rp := range []*rawio.RawPoint{raw1, raw2} {
		var pbuf bytes.Buffer
		if err := rawio.EncodePoint(&pbuf, rp, layout); err != nil {
			t.Fatalf("EncodePoint: %v", err)
		}
		if err := comp.WritePoint(pbuf.Bytes()); err != nil {
			t.Fatalf("WritePoint: %v", err)
		}
	}
	if err := comp.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	chunkSize := buf.Len() - int(chunkStart)

	header := &las.Header{PointFormat: format, Transforms: identityTransforms()}
	laszipVlr(header)
	src := &seekBuf{data: buf.Bytes()}
	r, err := NewEntryReader(src, header, decompressorFactory)
	if err != nil {
		t.Fatalf("NewEntryReader: %v", err)
	}

	entry := Entry{
		Offset:     uint64(chunkStart),
		ByteSize:   int32(chunkSize),
		PointCount: 2,
	}
	points, err := r.ReadEntry(entry)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].X != 10 || points[0].Y != 20 || points[0].Z != 30 {
		t.Errorf("point 0 = %+v, want X=10,Y=20,Z=30", points[0])
	}
	if points[1].Intensity != 2 {
		t.Errorf("point 1 Intensity = %d, want 2", points[1].Intensity)
	}
}

func TestEntryReaderRejectsPageReference(t *testing.T) {
	format, _ := las.NewPointFormat(0, 0)
	header := &las.Header{PointFormat: format, Transforms: identityTransforms()}
	laszipVlr(header)
	r, err := NewEntryReader(&seekBuf{}, header, decompressorFactory)
	if err != nil {
		t.Fatalf("NewEntryReader: %v", err)
	}

	_, err = r.ReadEntry(Entry{PointCount: -1})
	if err == nil {
		t.Fatal("expected an error for a page-reference entry")
	}
}

func TestEntryReaderEmptyEntryReturnsNil(t *testing.T) {
	format, _ := las.NewPointFormat(0, 0)
	header := &las.Header{PointFormat: format, Transforms: identityTransforms()}
	laszipVlr(header)
	r, err := NewEntryReader(&seekBuf{}, header, decompressorFactory)
	if err != nil {
		t.Fatalf("NewEntryReader: %v", err)
	}

	points, err := r.ReadEntry(Entry{PointCount: 0})
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if points != nil {
		t.Errorf("got %v, want nil", points)
	}
}

func TestEntryReaderRejectsUndersizedByteRange(t *testing.T) {
	format, _ := las.NewPointFormat(0, 0)
	header := &las.Header{PointFormat: format, Transforms: identityTransforms()}
	laszipVlr(header)
	r, err := NewEntryReader(&seekBuf{data: make([]byte, 5)}, header, decompressorFactory)
	if err != nil {
		t.Fatalf("NewEntryReader: %v", err)
	}

	_, err = r.ReadEntry(Entry{PointCount: 3, ByteSize: 5})
	if err == nil {
		t.Fatal("expected an error when declared points exceed the byte range")
	}
}
