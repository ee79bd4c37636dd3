// Package extrabytes parses the LASF_Spec/4 "Extra Bytes" VLR and
// projects typed, named values out of a point's trailing extra_bytes tail.
package extrabytes

import (
	"encoding/binary"
	"fmt"
	"math"
)

var byteOrder = binary.LittleEndian

func readF64At(b []byte, offset int) float64 {
	return math.Float64frombits(byteOrder.Uint64(b[offset:offset+8]))
}

func readF32At(b []byte, offset int) float32 {
	return math.Float32frombits(byteOrder.Uint32(b[offset:offset+4]))
}

// DataType enumerates the extra-bytes descriptor's data_type byte.
// Values 11..30 are reserved vector types, read as zero; 31..255 are
// reserved entirely.
type DataType uint8

const (
	TypeUndocumented DataType = 0
	TypeUint8        DataType = 1
	TypeInt8         DataType = 2
	TypeUint16       DataType = 3
	TypeInt16        DataType = 4
	TypeUint32       DataType = 5
	TypeInt32        DataType = 6
	TypeUint64       DataType = 7
	TypeInt64        DataType = 8
	TypeFloat32      DataType = 9
	TypeFloat64      DataType = 10
)

// size returns the byte width of a data type, or 0 for undocumented,
// reserved vector types (11..30), and reserved types (31..255).
func (t DataType) size() int {
	switch t {
	case TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// Option bits within a descriptor's options byte.
const (
	OptionNoData = 1 << 0
	OptionMin    = 1 << 1
	OptionMax    = 1 << 2
	OptionScale  = 1 << 3
	OptionOffset = 1 << 4
)

// descriptorRecordSize is the fixed 192-byte on-disk size of one
// descriptor record.
const descriptorRecordSize = 192

// Descriptor is one parsed 192-byte Extra Bytes descriptor record.
type Descriptor struct {
	DataType    DataType
	Options     uint8
	Name        string
	NoData      float64
	Min         float64
	Max         float64
	Scale       float64
	Offset      float64
	Description string
}

// HasScale, HasOffset report whether the corresponding option bit is set;
// when absent, the effective scale is 1 and offset is 0.
func (d Descriptor) HasScale() bool  { return d.Options&OptionScale != 0 }
func (d Descriptor) HasOffset() bool { return d.Options&OptionOffset != 0 }

func (d Descriptor) effectiveScale() float64 {
	if d.HasScale() {
		return d.Scale
	}
	return 1
}

func (d Descriptor) effectiveOffset() float64 {
	if d.HasOffset() {
		return d.Offset
	}
	return 0
}

// Size returns the on-disk byte width of this descriptor's value.
func (d Descriptor) Size() int { return d.DataType.size() }

// Schema is the parsed LASF_Spec/4 VLR: an ordered list of descriptors
// plus the cumulative byte-offset table used to index into a point's
// extra_bytes tail.
type Schema struct {
	Descriptors []Descriptor
	offsets     []int // offsets[i] = byte offset of Descriptors[i] within extra_bytes
}

// Parse decodes a LASF_Spec/4 VLR payload into a Schema. The payload
// length must be a multiple of 192 bytes.
func Parse(payload []byte) (*Schema, error) {
	if len(payload)%descriptorRecordSize != 0 {
		return nil, fmt.Errorf("extrabytes: payload length %d is not a multiple of %d", len(payload), descriptorRecordSize)
	}
	count := len(payload) / descriptorRecordSize
	s := &Schema{
		Descriptors: make([]Descriptor, count),
		offsets:     make([]int, count),
	}
	running := 0
	for i := 0; i < count; i++ {
		rec := payload[i*descriptorRecordSize : (i+1)*descriptorRecordSize]
		d := Descriptor{
			DataType: DataType(rec[2]),
			Options:  rec[3],
		}
		d.Name = trimZeroASCII(rec[4:36])
		d.NoData = readF64At(rec, 40)
		d.Min = readF64At(rec, 64)
		d.Max = readF64At(rec, 88)
		d.Scale = readF64At(rec, 112)
		d.Offset = readF64At(rec, 136)
		d.Description = trimZeroASCII(rec[160:192])

		s.Descriptors[i] = d
		s.offsets[i] = running
		running += d.Size()
	}
	return s, nil
}

// TotalSize returns the total byte width this schema occupies within a
// point's extra_bytes tail.
func (s *Schema) TotalSize() int {
	total := 0
	for _, d := range s.Descriptors {
		total += d.Size()
	}
	return total
}

// Field returns the Descriptor named name and its byte offset within
// extra_bytes, or ok=false if no such field exists.
func (s *Schema) Field(name string) (d Descriptor, offset int, ok bool) {
	for i, desc := range s.Descriptors {
		if desc.Name == name {
			return desc, s.offsets[i], true
		}
	}
	return Descriptor{}, 0, false
}

// Value projects the scaled/offset value of field i out of a point's raw
// extra_bytes tail: decode_typed(raw) * scale + offset.
func (s *Schema) Value(extraBytes []byte, i int) (float64, error) {
	if i < 0 || i >= len(s.Descriptors) {
		return 0, fmt.Errorf("extrabytes: descriptor index %d out of range", i)
	}
	d := s.Descriptors[i]
	off := s.offsets[i]
	size := d.Size()
	if off+size > len(extraBytes) {
		return 0, fmt.Errorf("extrabytes: field %q needs %d bytes at offset %d, only %d available", d.Name, size, off, len(extraBytes))
	}
	raw := decodeTyped(extraBytes[off:off+size], d.DataType)
	return raw*d.effectiveScale() + d.effectiveOffset(), nil
}

// ValueByName looks up a field by name and projects its value.
func (s *Schema) ValueByName(extraBytes []byte, name string) (float64, error) {
	for i, d := range s.Descriptors {
		if d.Name == name {
			return s.Value(extraBytes, i)
		}
	}
	return 0, fmt.Errorf("extrabytes: no field named %q", name)
}

func decodeTyped(b []byte, t DataType) float64 {
	switch t {
	case TypeUint8:
		return float64(b[0])
	case TypeInt8:
		return float64(int8(b[0]))
	case TypeUint16:
		return float64(byteOrder.Uint16(b))
	case TypeInt16:
		return float64(int16(byteOrder.Uint16(b)))
	case TypeUint32:
		return float64(byteOrder.Uint32(b))
	case TypeInt32:
		return float64(int32(byteOrder.Uint32(b)))
	case TypeUint64:
		return float64(byteOrder.Uint64(b))
	case TypeInt64:
		return float64(int64(byteOrder.Uint64(b)))
	case TypeFloat32:
		return float64(readF32At(b, 0))
	case TypeFloat64:
		return readF64At(b, 0)
	default:
		return 0
	}
}

func trimZeroASCII(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
