package copc

import (
	"fmt"
	"io"

	"github.com/go-las/las"
)

// EntryReader decodes the point records named by one hierarchy Entry,
// independent of any Reader's own sequential cursor. It seeks src to the
// entry's recorded byte range and drives a fresh Decompressor across it,
// so it never disturbs a concurrently-used sequential Reader.
type EntryReader struct {
	src     io.ReadSeeker
	header  *las.Header
	factory las.DecompressorFactory
	schema  []byte
}

// NewEntryReader builds an EntryReader over src using header's point
// format and coordinate transforms to decode records. Every COPC point
// region is LAZ-compressed, so factory is required; it is invoked once
// per ReadEntry call since each entry is its own independent compressed
// chunk.
func NewEntryReader(src io.ReadSeeker, header *las.Header, factory las.DecompressorFactory) (*EntryReader, error) {
	schema, err := lazSchema(header.Vlrs)
	if err != nil {
		return nil, err
	}
	return &EntryReader{src: src, header: header, factory: factory, schema: schema}, nil
}

// lazSchema locates the laszip item-schema VLR a DecompressorFactory
// needs to decode a chunk.
func lazSchema(vlrs []las.Vlr) ([]byte, error) {
	for _, v := range vlrs {
		if v.UserID == las.LaszipVlrUserID && v.RecordID == las.LaszipVlrRecordID {
			return v.Data, nil
		}
	}
	return nil, fmt.Errorf("copc: header has no laszip item-schema VLR")
}

// ReadEntry decompresses entry.PointCount records out of the
// entry.ByteSize compressed bytes starting at entry.Offset.
func (r *EntryReader) ReadEntry(entry Entry) ([]las.Point, error) {
	if entry.IsPageReference() {
		return nil, fmt.Errorf("copc: entry %s is a page reference, not a point chunk", entry.Key)
	}
	if entry.IsEmpty() {
		return nil, nil
	}

	pointLength := r.header.PointFormat.Length()
	want := int(entry.PointCount) * pointLength
	if want > int(entry.ByteSize) {
		return nil, fmt.Errorf("copc: entry %s declares %d points (%d bytes) but only %d bytes available",
			entry.Key, entry.PointCount, want, entry.ByteSize)
	}

	if _, err := r.src.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return nil, err
	}
	dec, err := r.factory(r.src, pointLength, r.schema)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	points := make([]las.Point, entry.PointCount)
	buf := make([]byte, pointLength)
	for i := range points {
		if err := dec.ReadPoint(buf); err != nil {
			return nil, fmt.Errorf("copc: entry %s point %d: %w", entry.Key, i, err)
		}
		p, err := las.DecodePoint(buf, r.header.PointFormat, r.header.Transforms)
		if err != nil {
			return nil, fmt.Errorf("copc: entry %s point %d: %w", entry.Key, i, err)
		}
		points[i] = p
	}
	return points, nil
}
