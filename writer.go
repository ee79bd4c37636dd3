package las

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"github.com/go-las/las/internal/rawio"
)

// WriterOptions configures Writer construction. The zero
// value writes only uncompressed payloads; supply CompressorFactory to
// write LAZ-compressed files. Diagnostics, if set, makes a Writer that is
// garbage collected before Close is called attempt Close itself, and
// receives one line reporting that attempt, including any error it
// returned.
type WriterOptions struct {
	CompressorFactory CompressorFactory
	Diagnostics       io.Writer
}

// DefaultWriterOptions returns the zero-value WriterOptions.
func DefaultWriterOptions() WriterOptions { return WriterOptions{} }

// Writer streams points to a LAS or LAZ sink, accumulating bounds and
// per-return counts, and rewrites the header on Close with their final
// values.
type Writer struct {
	sink        io.WriteSeeker
	header      *Header
	opts        WriterOptions
	startOffset int64
	layout      rawio.PointLayout
	compressor  Compressor
	closed      bool

	count    uint64
	byReturn [15]uint64
	bounds   Bounds
}

// NewWriter validates header against its own Version,
// writes the header placeholder, VLRs and VLR padding, and returns a
// Writer ready for WritePoint calls. sink must support Seek, since Close
// rewrites the header in place.
func NewWriter(sink io.WriteSeeker, header *Header, opts WriterOptions) (*Writer, error) {
	if !header.PointFormat.SupportedByVersion(header.Version) {
		return nil, &UnsupportedFormatForVersionError{Format: header.PointFormat.Code(), Version: header.Version}
	}
	if len(header.Evlrs) > 0 && !header.Version.HasEvlrs() {
		return nil, &FeatureNotSupportedError{Version: header.Version, Feature: "Evlrs"}
	}

	startOffset, err := sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	if header.IsCompressed {
		if opts.CompressorFactory == nil {
			return nil, &LaszipNotEnabledError{}
		}
		if !hasLazVlr(header.Vlrs) {
			schema := encodeLazSchema(lazSchema(header.PointFormat))
			header.Vlrs = append(header.Vlrs, Vlr{
				UserID:   LaszipVlrUserID,
				RecordID: LaszipVlrRecordID,
				Data:     schema,
			})
		}
	}

	header.NumberOfPoints = 0
	header.NumberOfPointsByReturn = [15]uint64{}
	header.Bounds = NewEmptyBounds()

	w := &Writer{
		sink:        sink,
		header:      header,
		opts:        opts,
		startOffset: startOffset,
		layout:      layoutFor(header.PointFormat),
		bounds:      NewEmptyBounds(),
	}

	if err := w.writeHeaderAndVlrs(0, 0); err != nil {
		return nil, err
	}

	if header.IsCompressed {
		schema, err := w.lazSchemaPayload()
		if err != nil {
			return nil, err
		}
		comp, err := opts.CompressorFactory(sink, w.layout.Length(), schema)
		if err != nil {
			return nil, err
		}
		w.compressor = comp
	}

	if opts.Diagnostics != nil {
		runtime.SetFinalizer(w, func(w *Writer) {
			if !w.closed {
				if err := w.Close(); err != nil {
					fmt.Fprintf(opts.Diagnostics, "las: Writer garbage collected without Close; finalizing %d written points failed: %v\n", w.count, err)
					return
				}
				fmt.Fprintf(opts.Diagnostics, "las: Writer garbage collected without Close; finalized %d written points\n", w.count)
			}
		})
	}

	return w, nil
}

func hasLazVlr(vlrs []Vlr) bool {
	for _, v := range vlrs {
		if v.UserID == LaszipVlrUserID && v.RecordID == LaszipVlrRecordID {
			return true
		}
	}
	return false
}

func (w *Writer) lazSchemaPayload() ([]byte, error) {
	for _, v := range w.header.Vlrs {
		if v.UserID == LaszipVlrUserID && v.RecordID == LaszipVlrRecordID {
			return v.Data, nil
		}
	}
	return nil, &LaszipNotEnabledError{}
}

// writeHeaderAndVlrs writes the fixed header, tail, every VLR and the
// VLR padding. startOfFirstEvlr/numberOfEvlrs are zero on the initial
// write and filled in by Close's final rewrite.
func (w *Writer) writeHeaderAndVlrs(startOfFirstEvlr uint64, numberOfEvlrs uint32) error {
	offsetToPointData := uint32(w.header.Version.HeaderSize()) + uint32(len(w.header.HeaderPadding)) + uint32(w.header.vlrPayloadTotal()) + uint32(len(w.header.VlrPadding))

	raw, err := rawHeaderFromHeader(w.header, offsetToPointData, startOfFirstEvlr, numberOfEvlrs)
	if err != nil {
		return err
	}
	if err := raw.WriteFixed(w.sink); err != nil {
		return err
	}
	if err := raw.WriteTail(w.sink); err != nil {
		return err
	}

	for _, v := range w.header.Vlrs {
		rv, err := rawVlrFromVlr(v)
		if err != nil {
			return err
		}
		if err := rv.Write(w.sink); err != nil {
			return err
		}
	}
	if len(w.header.VlrPadding) > 0 {
		if _, err := w.sink.Write(w.header.VlrPadding); err != nil {
			return err
		}
	}
	return nil
}

// WritePoint encodes and appends one point, rejecting any optional-field
// mismatch against the target format and updating running bounds/counts.
func (w *Writer) WritePoint(p Point) error {
	if w.closed {
		return &ClosedWriterError{}
	}
	rp, err := encodePoint(p, w.header.PointFormat, w.header.Transforms)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := rawio.EncodePoint(&buf, rp, w.layout); err != nil {
		return err
	}

	if w.compressor != nil {
		if err := w.compressor.WritePoint(buf.Bytes()); err != nil {
			return err
		}
	} else {
		if _, err := w.sink.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	w.count++
	w.bounds.Grow(p.Coordinates())
	if p.ReturnNumber >= 1 && int(p.ReturnNumber)-1 < len(w.byReturn) {
		w.byReturn[p.ReturnNumber-1]++
	}
	return nil
}

// Close finalizes the LAZ compressor (if any), writes point_padding and
// EVLRs, then seeks back and rewrites the header with final bounds and
// counts.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.opts.Diagnostics != nil {
		runtime.SetFinalizer(w, nil)
	}

	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			return err
		}
	}

	if len(w.header.PointPadding) > 0 {
		if _, err := w.sink.Write(w.header.PointPadding); err != nil {
			return err
		}
	}

	var startOfFirstEvlr uint64
	if len(w.header.Evlrs) > 0 {
		pos, err := w.sink.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		startOfFirstEvlr = uint64(pos)
		for _, e := range w.header.Evlrs {
			re, err := rawEvlrFromEvlr(e)
			if err != nil {
				return err
			}
			if err := re.Write(w.sink); err != nil {
				return err
			}
		}
	}

	w.header.NumberOfPoints = w.count
	w.header.NumberOfPointsByReturn = w.byReturn
	w.header.Bounds = w.bounds

	if _, err := w.sink.Seek(w.startOffset, io.SeekStart); err != nil {
		return err
	}
	return w.writeHeaderAndVlrs(startOfFirstEvlr, uint32(len(w.header.Evlrs)))
}

func rawHeaderFromHeader(h *Header, offsetToPointData uint32, startOfFirstEvlr uint64, numberOfEvlrs uint32) (*rawio.RawHeader, error) {
	sysID, err := rawio.EncodeFixedASCII("system_identifier", h.SystemIdentifier, 32)
	if err != nil {
		return nil, err
	}
	genSoft, err := rawio.EncodeFixedASCII("generating_software", h.GeneratingSoftware, 32)
	if err != nil {
		return nil, err
	}

	raw := &rawio.RawHeader{
		FileSignature:         rawio.FileSignature,
		FileSourceID:          h.FileSourceID,
		VersionMajor:          h.Version.Major,
		VersionMinor:          h.Version.Minor,
		FileCreationDayOfYear: h.CreationDay,
		FileCreationYear:      h.CreationYear,
		HeaderSize:            h.Version.HeaderSize() + uint16(len(h.HeaderPadding)),
		OffsetToPointData:     offsetToPointData,
		NumberOfVlrs:          uint32(len(h.Vlrs)),
		PointDataRecordLength: uint16(h.PointFormat.Length()),
		XScaleFactor:          h.Transforms.X.Scale,
		YScaleFactor:          h.Transforms.Y.Scale,
		ZScaleFactor:          h.Transforms.Z.Scale,
		XOffset:               h.Transforms.X.Offset,
		YOffset:               h.Transforms.Y.Offset,
		ZOffset:               h.Transforms.Z.Offset,
		Padding:               h.HeaderPadding,
	}
	copy(raw.SystemIdentifier[:], sysID)
	copy(raw.GeneratingSoftware[:], genSoft)
	copy(raw.ProjectIDGUID[:], h.GUID[:])
	raw.SetPointFormat(h.PointFormat.Code(), h.IsCompressed)
	if h.GpsTimeType == GpsTimeStandard {
		raw.GlobalEncoding |= 0x01
	}

	raw.MaxX, raw.MinX = h.Bounds.Max.X, h.Bounds.Min.X
	raw.MaxY, raw.MinY = h.Bounds.Max.Y, h.Bounds.Min.Y
	raw.MaxZ, raw.MinZ = h.Bounds.Max.Z, h.Bounds.Min.Z

	if h.Version.HasLargeFiles() {
		raw.NumberOfPointRecords64 = h.NumberOfPoints
		raw.NumberOfPointsByReturn64 = h.NumberOfPointsByReturn
		raw.StartOfFirstEvlr = startOfFirstEvlr
		raw.NumberOfEvlrs = numberOfEvlrs
	} else {
		raw.NumberOfPointRecords = uint32(h.NumberOfPoints)
		for i := 0; i < 5; i++ {
			raw.NumberOfPointsByReturn[i] = uint32(h.NumberOfPointsByReturn[i])
		}
	}
	if h.Version.HasWaveforms() {
		raw.StartOfWaveformDataPacketRecord = 0
	}

	return raw, nil
}

func rawVlrFromVlr(v Vlr) (*rawio.RawVlr, error) {
	if len(v.Data) > 65535 {
		return nil, &VlrDataTooLongError{Length: len(v.Data)}
	}
	userID, err := rawio.EncodeFixedASCII("vlr.user_id", v.UserID, 16)
	if err != nil {
		return nil, err
	}
	desc, err := rawio.EncodeFixedASCII("vlr.description", v.Description, 32)
	if err != nil {
		return nil, err
	}
	rv := &rawio.RawVlr{Reserved: v.Reserved, RecordID: v.RecordID, Data: v.Data}
	copy(rv.UserID[:], userID)
	copy(rv.Description[:], desc)
	return rv, nil
}

func rawEvlrFromEvlr(e Evlr) (*rawio.RawEvlr, error) {
	userID, err := rawio.EncodeFixedASCII("evlr.user_id", e.UserID, 16)
	if err != nil {
		return nil, err
	}
	desc, err := rawio.EncodeFixedASCII("evlr.description", e.Description, 32)
	if err != nil {
		return nil, err
	}
	re := &rawio.RawEvlr{Reserved: e.Reserved, RecordID: e.RecordID, Data: e.Data}
	copy(re.UserID[:], userID)
	copy(re.Description[:], desc)
	return re, nil
}
