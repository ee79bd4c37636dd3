package laz

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// ParallelOptions controls the worker pool a ParallelDecompressor uses
// to materialize chunks concurrently.
type ParallelOptions struct {
	// Workers is the number of concurrent chunk-loader goroutines. If 0,
	// defaults to runtime.NumCPU().
	Workers int
}

// DefaultParallelOptions returns worker-pool options sized to the host.
func DefaultParallelOptions() ParallelOptions {
	return ParallelOptions{Workers: runtime.NumCPU()}
}

// ParallelDecompressor reads every chunk of a LAZ payload up front using
// a worker pool, then serves ReadPoint/Seek out of the reassembled,
// file-order point buffer. It presents the identical ReadPoint/Seek/
// Close surface as Decompressor; the difference is entirely in how the
// backing bytes are materialized.
type ParallelDecompressor struct {
	pointLength int
	chunkSize   int
	points      [][]byte // points[i] is the raw record for point i, in file order
	index       uint64
}

// NewParallelDecompressor reads every chunk from src (which must be
// positioned at the start of the LAZ payload) through a jobs/results
// pool of opts.Workers goroutines, then reassembles them in file order.
// The workers share src, so their seek-and-read calls are serialized by
// readChunkAt.
func NewParallelDecompressor(src io.ReadSeeker, pointLength int, schema []byte, opts ParallelOptions) (*ParallelDecompressor, error) {
	basePos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	// First pass (sequential, since it must follow the chunk chain):
	// record each chunk's file offset and byte length.
	type chunkLoc struct {
		pos    int64
		length uint32
	}
	var locs []chunkLoc
	pos := basePos
	for {
		if _, err := src.Seek(pos, io.SeekStart); err != nil {
			return nil, err
		}
		header := make([]byte, chunkHeaderSize)
		if _, err := io.ReadFull(src, header); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		length := byteOrder.Uint32(header)
		locs = append(locs, chunkLoc{pos: pos + chunkHeaderSize, length: length})
		pos += int64(chunkHeaderSize) + int64(length)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(locs) {
		workers = len(locs)
	}
	if workers == 0 {
		return &ParallelDecompressor{pointLength: pointLength, chunkSize: DefaultChunkSize}, nil
	}

	type job struct {
		index int
		loc   chunkLoc
	}
	type result struct {
		index int
		data  []byte
		err   error
	}

	jobs := make(chan job, len(locs))
	results := make(chan result, len(locs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				// Every worker reads through the one shared src;
				// readChunkAt serializes those reads.
				buf := make([]byte, j.loc.length)
				if err := readChunkAt(src, j.loc.pos, buf); err != nil {
					results <- result{index: j.index, err: fmt.Errorf("laz: chunk %d: %w", j.index, err)}
					continue
				}
				results <- result{index: j.index, data: buf}
			}
		}()
	}

	for i, loc := range locs {
		jobs <- job{index: i, loc: loc}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	chunks := make([][]byte, len(locs))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		chunks[r.index] = r.data
	}

	var points [][]byte
	for _, chunk := range chunks {
		for off := 0; off+pointLength <= len(chunk); off += pointLength {
			points = append(points, chunk[off:off+pointLength])
		}
	}

	return &ParallelDecompressor{
		pointLength: pointLength,
		chunkSize:   DefaultChunkSize,
		points:      points,
	}, nil
}

// readChunkMu serializes readChunkAt: callers share one io.ReadSeeker,
// and each chunk read seeks then reads its own fixed range, so the
// seek/read pair must not interleave with another worker's.
var readChunkMu sync.Mutex

func readChunkAt(src io.ReadSeeker, pos int64, buf []byte) error {
	readChunkMu.Lock()
	defer readChunkMu.Unlock()
	if _, err := src.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(src, buf)
	return err
}

// ReadPoint returns the next point in file order.
func (d *ParallelDecompressor) ReadPoint(buf []byte) error {
	if int(d.index) >= len(d.points) {
		return io.EOF
	}
	if len(buf) != d.pointLength {
		return fmt.Errorf("laz: point buffer is %d bytes, want %d", len(buf), d.pointLength)
	}
	copy(buf, d.points[d.index])
	d.index++
	return nil
}

// Seek jumps directly to pointIndex; since every point was already
// materialized at construction, this is O(1) rather than requiring
// chunk re-decompression.
func (d *ParallelDecompressor) Seek(pointIndex uint64) error {
	d.index = pointIndex
	return nil
}

// Close releases the materialized point buffer.
func (d *ParallelDecompressor) Close() error {
	d.points = nil
	return nil
}
