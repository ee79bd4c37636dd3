package las

import "io"

// Decompressor supplies uncompressed point-record bytes read back out of
// a LAZ payload. Implementations live outside this module; go-las only derives the schema a Decompressor needs and
// drives it through this capability set.
type Decompressor interface {
	// ReadPoint reads exactly one raw point record (pointLength bytes, as
	// passed to the factory) per call, returning io.EOF once the stream is
	// exhausted.
	ReadPoint(buf []byte) error
	// Seek repositions the decompressor so the next ReadPoint call yields
	// the point at the given logical index. Implementations may need to
	// re-decompress from the nearest chunk boundary.
	Seek(pointIndex uint64) error
	Close() error
}

// Compressor accepts raw point-record bytes and writes a LAZ payload.
type Compressor interface {
	WritePoint(buf []byte) error
	// Close finalizes the compressed stream (flush trailing chunks, write
	// the chunk table). It must be called before the writer rewrites its
	// header, mirroring the uncompressed Writer.Close contract.
	Close() error
}

// DecompressorFactory constructs a Decompressor bound to src, given the
// per-point record length and the laszip item-schema VLR payload bytes.
// A nil factory with IsCompressed data set on the header causes NewReader
// to fail with LaszipNotEnabledError.
type DecompressorFactory func(src io.ReadSeeker, pointLength int, schema []byte) (Decompressor, error)

// CompressorFactory constructs a Compressor bound to dst.
type CompressorFactory func(dst io.Writer, pointLength int, schema []byte) (Compressor, error)

// lazItem names one record segment in the laszip item-schema VLR. The
// real entropy encoding of this schema is a collaborator concern;
// go-las only needs to derive which items are present and in what
// order, which is recorded here for the laz package to serialize.
type lazItem struct {
	Name string
	Size int
}

// lazSchema derives the ordered item list a point format implies
//: Point10/Point14, then GpsTime if needed separately,
// then color/NIR, then a trailing Byte segment for extra_bytes.
func lazSchema(f PointFormat) []lazItem {
	var items []lazItem
	if f.IsExtended() {
		items = append(items, lazItem{Name: "Point14", Size: f.baseLength() - f.extraBytes})
	} else {
		items = append(items, lazItem{Name: "Point10", Size: 20})
		if f.HasGpsTime() {
			items = append(items, lazItem{Name: "GpsTime", Size: 8})
		}
		if f.HasColor() {
			items = append(items, lazItem{Name: "RGB12", Size: 6})
		}
	}
	if f.IsExtended() {
		if f.HasColor() && f.HasNir() {
			items = append(items, lazItem{Name: "RGBNIR14", Size: 8})
		} else if f.HasColor() {
			items = append(items, lazItem{Name: "RGB14", Size: 6})
		}
	}
	if f.extraBytes > 0 {
		name := "Byte"
		if f.IsExtended() {
			name = "Byte14"
		}
		items = append(items, lazItem{Name: name, Size: f.extraBytes})
	}
	return items
}

// encodeLazSchema serializes the item list into the laszip item-schema
// VLR payload: a count byte followed by (name, size) pairs. The exact
// on-wire shape of this VLR is owned by the laz codec family; this is a
// minimal self-describing form sufficient for go-las's own adapter to
// round-trip against itself.
func encodeLazSchema(items []lazItem) []byte {
	buf := []byte{byte(len(items))}
	for _, it := range items {
		nameBytes := []byte(it.Name)
		buf = append(buf, byte(len(nameBytes)))
		buf = append(buf, nameBytes...)
		buf = append(buf, byte(it.Size))
	}
	return buf
}
