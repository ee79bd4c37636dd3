package rawio

import (
	"fmt"
	"io"
	"math"
)

// PointLayout is the subset of point-format feature flags the raw point
// codec needs to know to lay out a record. It is a plain mirror of
// las.PointFormat's flags, kept separate to avoid an import cycle between
// this package and the las package that owns PointFormat.
type PointLayout struct {
	Extended    bool
	HasGpsTime  bool
	HasColor    bool
	HasNir      bool
	HasWaveform bool
	ExtraBytes  int
}

// RawPoint is the byte-exact decode of one point record, across every
// point format. Fields not selected by the layout used to decode it are
// left at their zero value.
type RawPoint struct {
	X, Y, Z int32

	Intensity uint16

	// Legacy layout
	ReturnNumber3    uint8 // 0..7
	NumberOfReturns3 uint8 // 0..7
	ScanDirectionBit uint8 // 0 or 1
	EdgeOfFlightLine uint8 // 0 or 1
	Classification5  uint8 // 0..31
	Synthetic        bool
	KeyPoint         bool
	Withheld         bool
	ScanAngleRank    int8

	// Extended layout
	ReturnNumber4      uint8 // 0..15
	NumberOfReturns4   uint8 // 0..15
	ClassFlagSynthetic bool
	ClassFlagKeyPoint  bool
	ClassFlagWithheld  bool
	ClassFlagOverlap   bool
	ScannerChannel     uint8 // 0..3
	ScanDirectionBitE  uint8
	EdgeOfFlightLineE  uint8
	Classification8    uint8
	ScanAngleScaled    int16 // 0.006 deg/unit

	UserData      uint8
	PointSourceID uint16

	GpsTime float64

	Red, Green, Blue uint16
	Nir              uint16

	WaveformPacketDescriptorIndex   uint8
	WaveformByteOffset              uint64
	WaveformPacketSize              uint32
	WaveformReturnPointLocation     float32
	WaveformX, WaveformY, WaveformZ float32

	ExtraBytes []byte
}

// Length returns the on-disk length this layout implies, equal to
// las.PointFormat.Length() for the same feature set.
func (l PointLayout) Length() int {
	n := 20
	if l.HasGpsTime {
		n += 8
	}
	if l.HasColor {
		n += 6
	}
	if l.HasNir {
		n += 2
	}
	if l.HasWaveform {
		n += 29
	}
	if l.Extended {
		n += 2
	}
	return n + l.ExtraBytes
}

// DecodePoint decodes exactly l.Length() bytes from buf into a RawPoint.
// buf must be at least that long; surplus bytes are not consumed here —
// callers that tolerate a record longer than its format's base length
// size buf to l.Length() plus whatever surplus they observed, and set
// l.ExtraBytes accordingly before calling.
func DecodePoint(buf []byte, l PointLayout) (*RawPoint, error) {
	if len(buf) < l.Length() {
		return nil, &ShortPointRecordError{Want: l.Length(), Got: len(buf)}
	}
	p := &RawPoint{}
	off := 0
	p.X = int32(byteOrder.Uint32(buf[off:]))
	off += 4
	p.Y = int32(byteOrder.Uint32(buf[off:]))
	off += 4
	p.Z = int32(byteOrder.Uint32(buf[off:]))
	off += 4
	p.Intensity = byteOrder.Uint16(buf[off:])
	off += 2

	if l.Extended {
		b1 := buf[off]
		b2 := buf[off+1]
		off += 2
		p.ReturnNumber4 = b1 & 0x0f
		p.NumberOfReturns4 = (b1 >> 4) & 0x0f
		p.ClassFlagSynthetic = b2&0x01 != 0
		p.ClassFlagKeyPoint = b2&0x02 != 0
		p.ClassFlagWithheld = b2&0x04 != 0
		p.ClassFlagOverlap = b2&0x08 != 0
		p.ScannerChannel = (b2 >> 4) & 0x03
		p.ScanDirectionBitE = (b2 >> 6) & 0x01
		p.EdgeOfFlightLineE = (b2 >> 7) & 0x01

		p.Classification8 = buf[off]
		off++
		p.UserData = buf[off]
		off++
		p.ScanAngleScaled = int16(byteOrder.Uint16(buf[off:]))
		off += 2
		p.PointSourceID = byteOrder.Uint16(buf[off:])
		off += 2
		p.GpsTime = readF64(buf[off:])
		off += 8
	} else {
		b := buf[off]
		off++
		p.ReturnNumber3 = b & 0x07
		p.NumberOfReturns3 = (b >> 3) & 0x07
		p.ScanDirectionBit = (b >> 6) & 0x01
		p.EdgeOfFlightLine = (b >> 7) & 0x01

		c := buf[off]
		off++
		p.Classification5 = c & 0x1f
		p.Synthetic = c&0x20 != 0
		p.KeyPoint = c&0x40 != 0
		p.Withheld = c&0x80 != 0

		p.ScanAngleRank = int8(buf[off])
		off++
		p.UserData = buf[off]
		off++
		p.PointSourceID = byteOrder.Uint16(buf[off:])
		off += 2

		if l.HasGpsTime {
			p.GpsTime = readF64(buf[off:])
			off += 8
		}
	}

	if l.HasColor {
		p.Red = byteOrder.Uint16(buf[off:])
		off += 2
		p.Green = byteOrder.Uint16(buf[off:])
		off += 2
		p.Blue = byteOrder.Uint16(buf[off:])
		off += 2
	}
	if l.HasNir {
		p.Nir = byteOrder.Uint16(buf[off:])
		off += 2
	}
	if l.HasWaveform {
		p.WaveformPacketDescriptorIndex = buf[off]
		off++
		p.WaveformByteOffset = byteOrder.Uint64(buf[off:])
		off += 8
		p.WaveformPacketSize = byteOrder.Uint32(buf[off:])
		off += 4
		p.WaveformReturnPointLocation = readF32(buf[off:])
		off += 4
		p.WaveformX = readF32(buf[off:])
		off += 4
		p.WaveformY = readF32(buf[off:])
		off += 4
		p.WaveformZ = readF32(buf[off:])
		off += 4
	}

	if l.ExtraBytes > 0 {
		p.ExtraBytes = append([]byte(nil), buf[off:off+l.ExtraBytes]...)
		off += l.ExtraBytes
	}

	return p, nil
}

// EncodePoint writes a RawPoint to w using the given layout.
func EncodePoint(w io.Writer, p *RawPoint, l PointLayout) error {
	buf := make([]byte, l.Length())
	off := 0
	byteOrder.PutUint32(buf[off:], uint32(p.X))
	off += 4
	byteOrder.PutUint32(buf[off:], uint32(p.Y))
	off += 4
	byteOrder.PutUint32(buf[off:], uint32(p.Z))
	off += 4
	byteOrder.PutUint16(buf[off:], p.Intensity)
	off += 2

	if l.Extended {
		b1 := (p.ReturnNumber4 & 0x0f) | ((p.NumberOfReturns4 & 0x0f) << 4)
		var b2 uint8
		if p.ClassFlagSynthetic {
			b2 |= 0x01
		}
		if p.ClassFlagKeyPoint {
			b2 |= 0x02
		}
		if p.ClassFlagWithheld {
			b2 |= 0x04
		}
		if p.ClassFlagOverlap {
			b2 |= 0x08
		}
		b2 |= (p.ScannerChannel & 0x03) << 4
		b2 |= (p.ScanDirectionBitE & 0x01) << 6
		b2 |= (p.EdgeOfFlightLineE & 0x01) << 7
		buf[off] = b1
		buf[off+1] = b2
		off += 2

		buf[off] = p.Classification8
		off++
		buf[off] = p.UserData
		off++
		byteOrder.PutUint16(buf[off:], uint16(p.ScanAngleScaled))
		off += 2
		byteOrder.PutUint16(buf[off:], p.PointSourceID)
		off += 2
		writeF64(buf[off:], p.GpsTime)
		off += 8
	} else {
		var b uint8
		b = p.ReturnNumber3 & 0x07
		b |= (p.NumberOfReturns3 & 0x07) << 3
		b |= (p.ScanDirectionBit & 0x01) << 6
		b |= (p.EdgeOfFlightLine & 0x01) << 7
		buf[off] = b
		off++

		var c uint8
		c = p.Classification5 & 0x1f
		if p.Synthetic {
			c |= 0x20
		}
		if p.KeyPoint {
			c |= 0x40
		}
		if p.Withheld {
			c |= 0x80
		}
		buf[off] = c
		off++

		buf[off] = uint8(p.ScanAngleRank)
		off++
		buf[off] = p.UserData
		off++
		byteOrder.PutUint16(buf[off:], p.PointSourceID)
		off += 2

		if l.HasGpsTime {
			writeF64(buf[off:], p.GpsTime)
			off += 8
		}
	}

	if l.HasColor {
		byteOrder.PutUint16(buf[off:], p.Red)
		off += 2
		byteOrder.PutUint16(buf[off:], p.Green)
		off += 2
		byteOrder.PutUint16(buf[off:], p.Blue)
		off += 2
	}
	if l.HasNir {
		byteOrder.PutUint16(buf[off:], p.Nir)
		off += 2
	}
	if l.HasWaveform {
		buf[off] = p.WaveformPacketDescriptorIndex
		off++
		byteOrder.PutUint64(buf[off:], p.WaveformByteOffset)
		off += 8
		byteOrder.PutUint32(buf[off:], p.WaveformPacketSize)
		off += 4
		writeF32(buf[off:], p.WaveformReturnPointLocation)
		off += 4
		writeF32(buf[off:], p.WaveformX)
		off += 4
		writeF32(buf[off:], p.WaveformY)
		off += 4
		writeF32(buf[off:], p.WaveformZ)
		off += 4
	}

	if l.ExtraBytes > 0 {
		copy(buf[off:off+l.ExtraBytes], p.ExtraBytes)
		off += l.ExtraBytes
	}

	_, err := w.Write(buf)
	return err
}

func readF32(b []byte) float32 { return math.Float32frombits(byteOrder.Uint32(b[:4])) }
func writeF32(b []byte, v float32) { byteOrder.PutUint32(b[:4], math.Float32bits(v)) }

// ShortPointRecordError indicates fewer bytes were supplied than the
// layout requires.
type ShortPointRecordError struct {
	Want, Got int
}

func (e *ShortPointRecordError) Error() string {
	return fmt.Sprintf("rawio: short point record: want %d bytes, got %d", e.Want, e.Got)
}
