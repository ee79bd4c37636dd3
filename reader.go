package las

import (
	"io"

	"github.com/go-las/las/internal/rawio"
)

// ReaderOptions configures Reader construction. The zero
// value is ready to use and can only read uncompressed payloads; supply
// DecompressorFactory to read LAZ-compressed files.
type ReaderOptions struct {
	DecompressorFactory DecompressorFactory
}

// DefaultReaderOptions returns the zero-value ReaderOptions, mirroring
// the options-struct-with-Default pattern used throughout this module.
func DefaultReaderOptions() ReaderOptions { return ReaderOptions{} }

// Reader drives sequential and random-access point reads out of a LAS or
// LAZ byte source.
type Reader struct {
	source          io.ReadSeeker
	header          *Header
	layout          rawio.PointLayout
	pointDataOffset int64
	index           uint64
	decompressor    Decompressor
}

// NewReader parses source's header, VLRs and (if declared) EVLRs, then
// positions the reader at the start of the point region.
func NewReader(source io.ReadSeeker, opts ReaderOptions) (*Reader, error) {
	raw, err := rawio.ReadFixed(source)
	if err != nil {
		return nil, err
	}
	if err := raw.ReadTail(source); err != nil {
		return nil, err
	}

	_, format, err := formatAndVersion(raw)
	if err != nil {
		return nil, err
	}
	layout := layoutFor(format)

	b := NewBuilder(raw)
	consumed := int64(raw.HeaderSize)
	for i := uint32(0); i < raw.NumberOfVlrs; i++ {
		rv, err := rawio.ReadVlr(source)
		if err != nil {
			return nil, err
		}
		vlr, err := vlrFromRaw(rv)
		if err != nil {
			return nil, err
		}
		b.AddVlr(vlr)
		consumed += int64(rawio.VlrHeaderSize) + int64(len(rv.Data))
	}

	switch {
	case consumed < int64(raw.OffsetToPointData):
		gap := int64(raw.OffsetToPointData) - consumed
		padding := make([]byte, gap)
		if _, err := io.ReadFull(source, padding); err != nil {
			return nil, err
		}
		b.SetVlrPadding(padding)
	case consumed > int64(raw.OffsetToPointData):
		return nil, &OffsetToPointDataTooSmallError{Consumed: uint32(consumed), Declared: raw.OffsetToPointData}
	}

	pointDataOffset := int64(raw.OffsetToPointData)
	numberOfPoints := raw.NumberOfPoints()

	// pointRegionEnd locates where the point region actually ends on disk,
	// so any gap before the first EVLR (or end of file) can be absorbed as
	// point_padding. For a compressed stream this can't be computed
	// arithmetically, so a real decompressor is driven through every point
	// and the source's resulting cursor position is read back, then the
	// same decompressor is rewound with Seek(0) for reuse as the Reader's
	// sequential decompressor.
	var dec Decompressor
	var pointRegionEnd int64
	if raw.IsCompressed() {
		if opts.DecompressorFactory == nil {
			return nil, &LaszipNotEnabledError{}
		}
		schema, err := lazSchemaFromVlrs(b.vlrs)
		if err != nil {
			return nil, err
		}
		if _, err := source.Seek(pointDataOffset, io.SeekStart); err != nil {
			return nil, err
		}
		d, err := opts.DecompressorFactory(source, layout.Length(), schema)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, layout.Length())
		for i := uint64(0); i < numberOfPoints; i++ {
			if err := d.ReadPoint(buf); err != nil {
				return nil, err
			}
		}
		pos, err := source.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		pointRegionEnd = pos
		if err := d.Seek(0); err != nil {
			return nil, err
		}
		dec = d
	} else {
		pointRegionEnd = pointDataOffset + int64(numberOfPoints)*int64(layout.Length())
	}

	hasEvlrs := raw.VersionMinor == 4 && raw.NumberOfEvlrs > 0 && raw.StartOfFirstEvlr != 0
	var boundary int64
	if hasEvlrs {
		boundary = int64(raw.StartOfFirstEvlr)
	} else {
		end, err := source.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		boundary = end
	}

	switch {
	case boundary < pointRegionEnd:
		return nil, &OffsetToEvlrsTooSmallError{EndOfPoints: uint64(pointRegionEnd), Declared: uint64(boundary)}
	case boundary > pointRegionEnd:
		if _, err := source.Seek(pointRegionEnd, io.SeekStart); err != nil {
			return nil, err
		}
		padding := make([]byte, boundary-pointRegionEnd)
		if _, err := io.ReadFull(source, padding); err != nil {
			return nil, err
		}
		b.SetPointPadding(padding)
	}

	if hasEvlrs {
		if _, err := source.Seek(int64(raw.StartOfFirstEvlr), io.SeekStart); err != nil {
			return nil, err
		}
		for i := uint32(0); i < raw.NumberOfEvlrs; i++ {
			re, err := rawio.ReadEvlr(source)
			if err != nil {
				return nil, err
			}
			evlr, err := evlrFromRaw(re)
			if err != nil {
				return nil, err
			}
			b.AddEvlr(evlr)
		}
	}

	header, err := b.Build()
	if err != nil {
		return nil, err
	}

	r := &Reader{
		source:          source,
		header:          header,
		layout:          layout,
		pointDataOffset: pointDataOffset,
		decompressor:    dec,
	}

	if !header.IsCompressed {
		if _, err := source.Seek(pointDataOffset, io.SeekStart); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Header returns the reader's normalized header.
func (r *Reader) Header() *Header { return r.header }

// lazSchemaFromVlrs locates the laszip item-schema VLR so the decompressor
// factory can be handed its raw payload. Reader calls this against the
// builder's accumulated VLRs, ahead of VLR/EVLR normalization, since the
// point region must be located before Build can run.
func lazSchemaFromVlrs(vlrs []Vlr) ([]byte, error) {
	for _, v := range vlrs {
		if v.UserID == LaszipVlrUserID && v.RecordID == LaszipVlrRecordID {
			return v.Data, nil
		}
	}
	return nil, &LaszipNotEnabledError{}
}

// ReadPoint returns the next point in file order, or io.EOF once the
// logical point count is exhausted.
func (r *Reader) ReadPoint() (Point, error) {
	if r.index >= r.header.NumberOfPoints {
		return Point{}, io.EOF
	}
	buf := make([]byte, r.layout.Length())
	if r.decompressor != nil {
		if err := r.decompressor.ReadPoint(buf); err != nil {
			return Point{}, err
		}
	} else {
		if _, err := io.ReadFull(r.source, buf); err != nil {
			return Point{}, &UnexpectedEofError{Context: "point body"}
		}
	}
	r.index++
	return decodePoint(buf, r.header.PointFormat, r.header.Transforms)
}

// ReadPoints reads up to len(out) points, returning the count actually
// read; a short count without an error means the stream ended.
func (r *Reader) ReadPoints(out []Point) (int, error) {
	for i := range out {
		p, err := r.ReadPoint()
		if err == io.EOF {
			return i, nil
		}
		if err != nil {
			return i, err
		}
		out[i] = p
	}
	return len(out), nil
}

// Seek repositions the reader so the next ReadPoint call returns the
// point at logical index i.
func (r *Reader) Seek(i uint64) error {
	if r.decompressor != nil {
		if err := r.decompressor.Seek(i); err != nil {
			return err
		}
		r.index = i
		return nil
	}
	offset := r.pointDataOffset + int64(i)*int64(r.layout.Length())
	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.index = i
	return nil
}

// Close releases the decompressor, if any. The underlying source is
// owned by the caller and is not closed here.
func (r *Reader) Close() error {
	if r.decompressor != nil {
		return r.decompressor.Close()
	}
	return nil
}

func vlrFromRaw(rv *rawio.RawVlr) (Vlr, error) {
	userID, err := rawio.DecodeFixedASCII("vlr.user_id", rv.UserID[:])
	if err != nil {
		return Vlr{}, err
	}
	desc, err := rawio.DecodeFixedASCII("vlr.description", rv.Description[:])
	if err != nil {
		return Vlr{}, err
	}
	return Vlr{
		Reserved:    rv.Reserved,
		UserID:      userID,
		RecordID:    rv.RecordID,
		Description: desc,
		Data:        rv.Data,
	}, nil
}

func evlrFromRaw(re *rawio.RawEvlr) (Evlr, error) {
	userID, err := rawio.DecodeFixedASCII("evlr.user_id", re.UserID[:])
	if err != nil {
		return Evlr{}, err
	}
	desc, err := rawio.DecodeFixedASCII("evlr.description", re.Description[:])
	if err != nil {
		return Evlr{}, err
	}
	return Evlr{
		Reserved:    re.Reserved,
		UserID:      userID,
		RecordID:    re.RecordID,
		Description: desc,
		Data:        re.Data,
	}, nil
}
