// Package copc implements the Cloud Optimized Point Cloud extension:
// the Info VLR, the octree Hierarchy page format, a depth-first entry
// iterator, and an entry-based random-access point reader over a LAZ
// payload.
package copc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-las/las"
)

var byteOrder = binary.LittleEndian

// InfoSize is the fixed on-disk size of the COPC Info VLR payload.
const InfoSize = 160

// Info is the COPC Info VLR (user_id "copc", record_id 1), which MUST be
// the first VLR, starting at byte 375 — immediately after a v1.4 header.
type Info struct {
	Center       las.Vector3
	HalfSize     float64
	Spacing      float64
	RootHierOffset uint64
	RootHierSize   uint64
	GpsTimeMin   float64
	GpsTimeMax   float64
}

// ParseInfo decodes a 160-byte Info VLR payload. The eleven trailing
// reserved u64s are validated to be zero but otherwise discarded.
func ParseInfo(payload []byte) (*Info, error) {
	if len(payload) != InfoSize {
		return nil, fmt.Errorf("copc: info VLR payload is %d bytes, want %d", len(payload), InfoSize)
	}
	info := &Info{
		Center: las.Vector3{
			X: readF64(payload, 0),
			Y: readF64(payload, 8),
			Z: readF64(payload, 16),
		},
		HalfSize:       readF64(payload, 24),
		Spacing:        readF64(payload, 32),
		RootHierOffset: byteOrder.Uint64(payload[40:48]),
		RootHierSize:   byteOrder.Uint64(payload[48:56]),
		GpsTimeMin:     readF64(payload, 56),
		GpsTimeMax:     readF64(payload, 64),
	}
	for i := 0; i < 11; i++ {
		off := 72 + i*8
		if byteOrder.Uint64(payload[off:off+8]) != 0 {
			return nil, fmt.Errorf("copc: info VLR reserved field %d is nonzero", i)
		}
	}
	return info, nil
}

// Encode serializes Info back to its 160-byte on-disk form.
func (info *Info) Encode() []byte {
	buf := make([]byte, InfoSize)
	writeF64(buf, 0, info.Center.X)
	writeF64(buf, 8, info.Center.Y)
	writeF64(buf, 16, info.Center.Z)
	writeF64(buf, 24, info.HalfSize)
	writeF64(buf, 32, info.Spacing)
	byteOrder.PutUint64(buf[40:48], info.RootHierOffset)
	byteOrder.PutUint64(buf[48:56], info.RootHierSize)
	writeF64(buf, 56, info.GpsTimeMin)
	writeF64(buf, 64, info.GpsTimeMax)
	return buf
}

// VoxelKey identifies one node of the COPC octree.
type VoxelKey struct {
	Level int32
	X, Y, Z int32
}

// Parent returns the key one level up the tree.
func (k VoxelKey) Parent() VoxelKey {
	level := k.Level - 1
	if level < 0 {
		level = 0
	}
	return VoxelKey{Level: level, X: k.X >> 1, Y: k.Y >> 1, Z: k.Z >> 1}
}

// Child returns the key of the child octant named by direction (0..7),
// where bit 0 selects +X, bit 1 selects +Y, bit 2 selects +Z.
func (k VoxelKey) Child(direction int) (VoxelKey, error) {
	if direction < 0 || direction > 7 {
		return VoxelKey{}, &InvalidVoxelChildDirectionError{Direction: direction}
	}
	d := int32(direction)
	return VoxelKey{
		Level: k.Level + 1,
		X:     2*k.X | (d & 1),
		Y:     2*k.Y | ((d >> 1) & 1),
		Z:     2*k.Z | ((d >> 2) & 1),
	}, nil
}

// String renders a VoxelKey the way COPC tooling conventionally does:
// "level-x-y-z".
func (k VoxelKey) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", k.Level, k.X, k.Y, k.Z)
}

// Bounds returns the voxel's axis-aligned bounding box given the
// octree's root center/halfsize from the Info VLR.
func (k VoxelKey) Bounds(info *Info) las.Bounds {
	size := info.HalfSize / math.Pow(2, float64(k.Level))
	minX := info.Center.X - info.HalfSize + float64(k.X)*2*size
	minY := info.Center.Y - info.HalfSize + float64(k.Y)*2*size
	minZ := info.Center.Z - info.HalfSize + float64(k.Z)*2*size
	return las.Bounds{
		Min: las.Vector3{X: minX, Y: minY, Z: minZ},
		Max: las.Vector3{X: minX + 2*size, Y: minY + 2*size, Z: minZ + 2*size},
	}
}

// EntrySize is the fixed on-disk size of one hierarchy Entry record.
const EntrySize = 32

// Entry is one 32-byte hierarchy record. PointCount's
// sign carries its own meaning: positive is a data chunk, -1 is a
// reference to a child hierarchy page, 0 is an empty voxel.
type Entry struct {
	Key        VoxelKey
	Offset     uint64
	ByteSize   int32
	PointCount int32
}

// IsPageReference reports whether this entry points at a child
// hierarchy page rather than a point-data chunk.
func (e Entry) IsPageReference() bool { return e.PointCount == -1 }

// IsEmpty reports whether this voxel carries no points of its own.
func (e Entry) IsEmpty() bool { return e.PointCount == 0 }

// ParseEntry decodes one 32-byte Entry record.
func ParseEntry(b []byte) (Entry, error) {
	if len(b) != EntrySize {
		return Entry{}, fmt.Errorf("copc: entry record is %d bytes, want %d", len(b), EntrySize)
	}
	return Entry{
		Key: VoxelKey{
			Level: int32(byteOrder.Uint32(b[0:4])),
			X:     int32(byteOrder.Uint32(b[4:8])),
			Y:     int32(byteOrder.Uint32(b[8:12])),
			Z:     int32(byteOrder.Uint32(b[12:16])),
		},
		Offset:     byteOrder.Uint64(b[16:24]),
		ByteSize:   int32(byteOrder.Uint32(b[24:28])),
		PointCount: int32(byteOrder.Uint32(b[28:32])),
	}, nil
}

// Encode serializes an Entry back to its 32-byte on-disk form.
func (e Entry) Encode() []byte {
	buf := make([]byte, EntrySize)
	byteOrder.PutUint32(buf[0:4], uint32(e.Key.Level))
	byteOrder.PutUint32(buf[4:8], uint32(e.Key.X))
	byteOrder.PutUint32(buf[8:12], uint32(e.Key.Y))
	byteOrder.PutUint32(buf[12:16], uint32(e.Key.Z))
	byteOrder.PutUint64(buf[16:24], e.Offset)
	byteOrder.PutUint32(buf[24:28], uint32(e.ByteSize))
	byteOrder.PutUint32(buf[28:32], uint32(e.PointCount))
	return buf
}

func readF64(b []byte, offset int) float64 {
	return math.Float64frombits(byteOrder.Uint64(b[offset:offset+8]))
}

func writeF64(b []byte, offset int, v float64) {
	byteOrder.PutUint64(b[offset:offset+8], math.Float64bits(v))
}
