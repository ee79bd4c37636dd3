// Package laz implements the chunked point-record codec that sits
// behind las.Compressor/las.Decompressor. The LAZ
// compression engine itself is an external collaborator;
// what lives here is the chunking (each chunk a u32 length prefix plus
// its bytes, with no separate chunk table) and parallelism machinery a
// real laszip binding would slot into — the entropy coder
// is a placeholder raw passthrough so the adapter is exercisable
// end-to-end without a CGO dependency.
package laz

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultChunkSize is the number of points grouped into one compressed
// chunk, matching laszip's common default.
const DefaultChunkSize = 50000

var byteOrder = binary.LittleEndian

// chunkHeaderSize is the on-wire size of one chunk's length prefix.
const chunkHeaderSize = 4

// Compressor buffers points into fixed-size chunks and writes
// each chunk as a u32 byte-length prefix followed by the raw point
// bytes.
type Compressor struct {
	dst         io.Writer
	pointLength int
	chunkSize   int
	buf         []byte
	pointsInBuf int
}

// NewCompressor builds a sequential Compressor over dst. schema is
// accepted to match the las.CompressorFactory signature but is not
// otherwise interpreted here; it is opaque payload the caller already
// wrote to the laszip VLR.
func NewCompressor(dst io.Writer, pointLength int, schema []byte) (*Compressor, error) {
	return &Compressor{
		dst:         dst,
		pointLength: pointLength,
		chunkSize:   DefaultChunkSize,
		buf:         make([]byte, 0, pointLength*DefaultChunkSize),
	}, nil
}

// WritePoint buffers one raw point record, flushing a full chunk when
// the buffer reaches chunkSize points.
func (c *Compressor) WritePoint(p []byte) error {
	if len(p) != c.pointLength {
		return fmt.Errorf("laz: point buffer is %d bytes, want %d", len(p), c.pointLength)
	}
	c.buf = append(c.buf, p...)
	c.pointsInBuf++
	if c.pointsInBuf >= c.chunkSize {
		return c.flush()
	}
	return nil
}

func (c *Compressor) flush() error {
	if c.pointsInBuf == 0 {
		return nil
	}
	header := make([]byte, chunkHeaderSize)
	byteOrder.PutUint32(header, uint32(len(c.buf)))
	if _, err := c.dst.Write(header); err != nil {
		return err
	}
	if _, err := c.dst.Write(c.buf); err != nil {
		return err
	}
	c.buf = c.buf[:0]
	c.pointsInBuf = 0
	return nil
}

// Close flushes any partial final chunk.
func (c *Compressor) Close() error {
	return c.flush()
}

// Decompressor reads chunks back in file order, materializing
// one point at a time, and supports Seek by re-reading chunks from the
// payload's start").
type Decompressor struct {
	src         io.ReadSeeker
	basePos     int64
	pointLength int
	chunkSize   int

	chunk            []byte // decoded bytes of the current chunk
	chunkIdx         int    // index of the chunk currently loaded, -1 if none
	posInChunk       int
	nextChunkFilePos int64
}

// NewDecompressor builds a sequential Decompressor over src, which must
// currently be positioned at the start of the LAZ payload; that position
// is captured as the seek origin for chunk boundary arithmetic.
func NewDecompressor(src io.ReadSeeker, pointLength int, schema []byte) (*Decompressor, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &Decompressor{
		src:              src,
		basePos:          pos,
		pointLength:      pointLength,
		chunkSize:        DefaultChunkSize,
		chunkIdx:         -1,
		nextChunkFilePos: pos,
	}, nil
}

// ReadPoint copies the next raw point record into buf, loading the next
// chunk from the underlying stream as needed.
func (d *Decompressor) ReadPoint(buf []byte) error {
	if len(buf) != d.pointLength {
		return fmt.Errorf("laz: point buffer is %d bytes, want %d", len(buf), d.pointLength)
	}
	if d.chunkIdx < 0 || d.posInChunk >= len(d.chunk) {
		if err := d.loadNextChunk(); err != nil {
			return err
		}
	}
	copy(buf, d.chunk[d.posInChunk:d.posInChunk+d.pointLength])
	d.posInChunk += d.pointLength
	return nil
}

func (d *Decompressor) loadNextChunk() error {
	if _, err := d.src.Seek(d.nextChunkFilePos, io.SeekStart); err != nil {
		return err
	}
	header := make([]byte, chunkHeaderSize)
	if _, err := io.ReadFull(d.src, header); err != nil {
		return io.EOF
	}
	length := byteOrder.Uint32(header)
	chunk := make([]byte, length)
	if _, err := io.ReadFull(d.src, chunk); err != nil {
		return err
	}
	d.chunk = chunk
	d.posInChunk = 0
	d.chunkIdx++
	d.nextChunkFilePos += int64(chunkHeaderSize) + int64(length)
	return nil
}

// Seek repositions the decompressor to the chunk containing pointIndex,
// re-reading every chunk from the payload start up to that point — the
// same nearest-chunk-boundary cost a real entropy-coded LAZ payload
// would pay, since random access only ever lands on chunk boundaries.
func (d *Decompressor) Seek(pointIndex uint64) error {
	targetChunk := int(pointIndex / uint64(d.chunkSize))
	offsetInChunk := int(pointIndex % uint64(d.chunkSize))

	d.nextChunkFilePos = d.basePos
	d.chunkIdx = -1
	for i := 0; i <= targetChunk; i++ {
		if err := d.loadNextChunk(); err != nil {
			return err
		}
	}
	d.posInChunk = offsetInChunk * d.pointLength
	return nil
}

// Close is a no-op for the sequential decompressor; the underlying
// source is owned by the caller.
func (d *Decompressor) Close() error { return nil }
