// Package rawio implements the byte-exact LAS header, VLR/EVLR and point
// codecs. Everything here operates on plain integers
// and byte slices — it has no notion of "point format feature flags" or
// "normalized header"; that cross-version semantic layer lives one level
// up, in the las package's Builder.
package rawio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

var byteOrder = binary.LittleEndian

// FixedHeaderSize is the byte length of the version-independent v1.2
// header prefix.
const FixedHeaderSize = 227

// FileSignature is the 4-byte ASCII tag every LAS file starts with.
var FileSignature = [4]byte{'L', 'A', 'S', 'F'}

// RawHeader is the byte-exact decode of a LAS file header, including
// every version's optional tail. Fields absent for a given version are
// simply left at their zero value; it is the caller's job (las.Builder)
// to know which fields apply to VersionMinor.
type RawHeader struct {
	FileSignature          [4]byte
	FileSourceID           uint16
	GlobalEncoding         uint16
	ProjectIDGUID          [16]byte
	VersionMajor           uint8
	VersionMinor           uint8
	SystemIdentifier       [32]byte
	GeneratingSoftware     [32]byte
	FileCreationDayOfYear  uint16
	FileCreationYear       uint16
	HeaderSize             uint16
	OffsetToPointData      uint32
	NumberOfVlrs           uint32
	PointDataFormatID      uint8
	PointDataRecordLength  uint16
	NumberOfPointRecords   uint32
	NumberOfPointsByReturn [5]uint32
	XScaleFactor           float64
	YScaleFactor           float64
	ZScaleFactor           float64
	XOffset                float64
	YOffset                float64
	ZOffset                float64
	MaxX, MinX             float64
	MaxY, MinY             float64
	MaxZ, MinZ             float64

	// v1.3+
	StartOfWaveformDataPacketRecord uint64

	// v1.4+
	StartOfFirstEvlr          uint64
	NumberOfEvlrs             uint32
	NumberOfPointRecords64    uint64
	NumberOfPointsByReturn64  [15]uint64

	// Padding holds any bytes between the version's canonical tail and
	// the declared HeaderSize, preserved verbatim.
	Padding []byte
}

// ReadFixed reads the 227-byte version-independent prefix and validates
// the file signature. It does not read any version-dependent tail or
// padding; call ReadTail next with the result.
func ReadFixed(r io.Reader) (*RawHeader, error) {
	buf := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rawio: short read in fixed header: %w", err)
		}
		return nil, err
	}

	h := &RawHeader{}
	copy(h.FileSignature[:], buf[0:4])
	if h.FileSignature != FileSignature {
		return nil, &FileSignatureMismatchError{Got: h.FileSignature}
	}

	h.FileSourceID = byteOrder.Uint16(buf[4:6])
	h.GlobalEncoding = byteOrder.Uint16(buf[6:8])
	copy(h.ProjectIDGUID[:], buf[8:24])
	h.VersionMajor = buf[24]
	h.VersionMinor = buf[25]
	copy(h.SystemIdentifier[:], buf[26:58])
	copy(h.GeneratingSoftware[:], buf[58:90])
	h.FileCreationDayOfYear = byteOrder.Uint16(buf[90:92])
	h.FileCreationYear = byteOrder.Uint16(buf[92:94])
	h.HeaderSize = byteOrder.Uint16(buf[94:96])
	h.OffsetToPointData = byteOrder.Uint32(buf[96:100])
	h.NumberOfVlrs = byteOrder.Uint32(buf[100:104])
	h.PointDataFormatID = buf[104]
	h.PointDataRecordLength = byteOrder.Uint16(buf[105:107])
	h.NumberOfPointRecords = byteOrder.Uint32(buf[107:111])
	for i := 0; i < 5; i++ {
		h.NumberOfPointsByReturn[i] = byteOrder.Uint32(buf[111+4*i : 115+4*i])
	}
	off := 111 + 4*5 // 131
	h.XScaleFactor = readF64(buf[off:])
	h.YScaleFactor = readF64(buf[off+8:])
	h.ZScaleFactor = readF64(buf[off+16:])
	h.XOffset = readF64(buf[off+24:])
	h.YOffset = readF64(buf[off+32:])
	h.ZOffset = readF64(buf[off+40:])
	h.MaxX = readF64(buf[off+48:])
	h.MinX = readF64(buf[off+56:])
	h.MaxY = readF64(buf[off+64:])
	h.MinY = readF64(buf[off+72:])
	h.MaxZ = readF64(buf[off+80:])
	h.MinZ = readF64(buf[off+88:])
	// off+96 == 227 == FixedHeaderSize

	return h, nil
}

// ReadTail reads the version-dependent tail (v1.3's waveform offset,
// v1.4's EVLR/64-bit-count block) and any opaque padding up to the
// header's own declared HeaderSize.
func (h *RawHeader) ReadTail(r io.Reader) error {
	if h.VersionMinor >= 3 {
		buf := make([]byte, 8)
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("rawio: short read in v1.3 header tail: %w", err)
		}
		h.StartOfWaveformDataPacketRecord = byteOrder.Uint64(buf)
	}

	if h.VersionMinor >= 4 {
		buf := make([]byte, 8+4+8+15*8)
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("rawio: short read in v1.4 header tail: %w", err)
		}
		h.StartOfFirstEvlr = byteOrder.Uint64(buf[0:8])
		h.NumberOfEvlrs = byteOrder.Uint32(buf[8:12])
		h.NumberOfPointRecords64 = byteOrder.Uint64(buf[12:20])
		for i := 0; i < 15; i++ {
			h.NumberOfPointsByReturn64[i] = byteOrder.Uint64(buf[20+8*i : 28+8*i])
		}
	}

	canonical := canonicalHeaderSize(h.VersionMinor)
	if h.HeaderSize < canonical {
		return &HeaderSizeTooSmallError{Declared: h.HeaderSize, Minimum: canonical}
	}
	padLen := int(h.HeaderSize) - int(canonical)
	if padLen > 0 {
		h.Padding = make([]byte, padLen)
		if _, err := io.ReadFull(r, h.Padding); err != nil {
			return fmt.Errorf("rawio: short read in header padding: %w", err)
		}
	}
	return nil
}

func canonicalHeaderSize(minor uint8) uint16 {
	size := uint16(FixedHeaderSize)
	if minor >= 3 {
		size += 8
	}
	if minor >= 4 {
		size += 140
	}
	return size
}

// OffsetToEndOfPoints returns start_of_first_evlr if this header declares
// one (v1.4 with EVLRs present), else header_size + vlrPayload +
// pointRegionSize.
func (h *RawHeader) OffsetToEndOfPoints(vlrPayload int, pointRegionSize int64) uint64 {
	if h.VersionMinor == 4 && h.StartOfFirstEvlr != 0 {
		return h.StartOfFirstEvlr
	}
	return uint64(h.HeaderSize) + uint64(vlrPayload) + uint64(pointRegionSize)
}

// NumberOfPoints returns the 64-bit count if nonzero, else the legacy
// 32-bit count.
func (h *RawHeader) NumberOfPoints() uint64 {
	if h.NumberOfPointRecords64 != 0 {
		return h.NumberOfPointRecords64
	}
	return uint64(h.NumberOfPointRecords)
}

// NumberOfPointsByReturnWide returns the 15-slot array, folding the legacy
// 5-slot array into its first five entries when the 64-bit array is all
// zero.
func (h *RawHeader) NumberOfPointsByReturnWide() [15]uint64 {
	allZero := true
	for _, v := range h.NumberOfPointsByReturn64 {
		if v != 0 {
			allZero = false
			break
		}
	}
	if !allZero {
		return h.NumberOfPointsByReturn64
	}
	var wide [15]uint64
	for i := 0; i < 5; i++ {
		wide[i] = uint64(h.NumberOfPointsByReturn[i])
	}
	return wide
}

// WriteFixed writes the 227-byte version-independent prefix.
func (h *RawHeader) WriteFixed(w io.Writer) error {
	buf := make([]byte, FixedHeaderSize)
	copy(buf[0:4], h.FileSignature[:])
	byteOrder.PutUint16(buf[4:6], h.FileSourceID)
	byteOrder.PutUint16(buf[6:8], h.GlobalEncoding)
	copy(buf[8:24], h.ProjectIDGUID[:])
	buf[24] = h.VersionMajor
	buf[25] = h.VersionMinor
	copy(buf[26:58], h.SystemIdentifier[:])
	copy(buf[58:90], h.GeneratingSoftware[:])
	byteOrder.PutUint16(buf[90:92], h.FileCreationDayOfYear)
	byteOrder.PutUint16(buf[92:94], h.FileCreationYear)
	byteOrder.PutUint16(buf[94:96], h.HeaderSize)
	byteOrder.PutUint32(buf[96:100], h.OffsetToPointData)
	byteOrder.PutUint32(buf[100:104], h.NumberOfVlrs)
	buf[104] = h.PointDataFormatID
	byteOrder.PutUint16(buf[105:107], h.PointDataRecordLength)
	byteOrder.PutUint32(buf[107:111], h.NumberOfPointRecords)
	for i := 0; i < 5; i++ {
		byteOrder.PutUint32(buf[111+4*i:115+4*i], h.NumberOfPointsByReturn[i])
	}
	off := 131
	writeF64(buf[off:], h.XScaleFactor)
	writeF64(buf[off+8:], h.YScaleFactor)
	writeF64(buf[off+16:], h.ZScaleFactor)
	writeF64(buf[off+24:], h.XOffset)
	writeF64(buf[off+32:], h.YOffset)
	writeF64(buf[off+40:], h.ZOffset)
	writeF64(buf[off+48:], h.MaxX)
	writeF64(buf[off+56:], h.MinX)
	writeF64(buf[off+64:], h.MaxY)
	writeF64(buf[off+72:], h.MinY)
	writeF64(buf[off+80:], h.MaxZ)
	writeF64(buf[off+88:], h.MinZ)

	_, err := w.Write(buf)
	return err
}

// WriteTail writes the version-dependent tail and any stored padding.
func (h *RawHeader) WriteTail(w io.Writer) error {
	if h.VersionMinor >= 3 {
		buf := make([]byte, 8)
		byteOrder.PutUint64(buf, h.StartOfWaveformDataPacketRecord)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	if h.VersionMinor >= 4 {
		buf := make([]byte, 8+4+8+15*8)
		byteOrder.PutUint64(buf[0:8], h.StartOfFirstEvlr)
		byteOrder.PutUint32(buf[8:12], h.NumberOfEvlrs)
		byteOrder.PutUint64(buf[12:20], h.NumberOfPointRecords64)
		for i := 0; i < 15; i++ {
			byteOrder.PutUint64(buf[20+8*i:28+8*i], h.NumberOfPointsByReturn64[i])
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	if len(h.Padding) > 0 {
		if _, err := w.Write(h.Padding); err != nil {
			return err
		}
	}
	return nil
}

// IsCompressed reports whether the high bit of PointDataFormatID is set.
func (h *RawHeader) IsCompressed() bool { return h.PointDataFormatID&0x80 != 0 }

// PointFormatCode returns the low 7 bits of PointDataFormatID (the real
// format code, independent of the compression indicator bit).
func (h *RawHeader) PointFormatCode() uint8 { return h.PointDataFormatID &^ 0x80 }

// SetPointFormat packs a format code and compression bit into
// PointDataFormatID.
func (h *RawHeader) SetPointFormat(code uint8, compressed bool) {
	h.PointDataFormatID = code & 0x7f
	if compressed {
		h.PointDataFormatID |= 0x80
	}
}

func readF64(b []byte) float64 {
	return math.Float64frombits(byteOrder.Uint64(b[:8]))
}

func writeF64(b []byte, v float64) {
	byteOrder.PutUint64(b[:8], math.Float64bits(v))
}
