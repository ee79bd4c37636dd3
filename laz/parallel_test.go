package laz

import (
	"bytes"
	"testing"
)

func TestParallelDecompressorMatchesSequentialOrder(t *testing.T) {
	const pointLength = 8
	buf := &seekBuf{}
	c, err := NewCompressor(buf, pointLength, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.chunkSize = 5

	var points [][]byte
	for i := 0; i < 23; i++ {
		p := makePoint(pointLength, byte(i))
		points = append(points, p)
		if err := c.WritePoint(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	buf.pos = 0
	opts := ParallelOptions{Workers: 4}
	pd, err := NewParallelDecompressor(buf, pointLength, nil, opts)
	if err != nil {
		t.Fatalf("NewParallelDecompressor: %v", err)
	}

	for i, want := range points {
		got := make([]byte, pointLength)
		if err := pd.ReadPoint(got); err != nil {
			t.Fatalf("ReadPoint %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("point %d = %v, want %v", i, got, want)
		}
	}
}

func TestParallelDecompressorSeekIsO1(t *testing.T) {
	const pointLength = 4
	buf := &seekBuf{}
	c, err := NewCompressor(buf, pointLength, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.chunkSize = 3
	var points [][]byte
	for i := 0; i < 10; i++ {
		p := makePoint(pointLength, byte(i))
		points = append(points, p)
		if err := c.WritePoint(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	buf.pos = 0
	pd, err := NewParallelDecompressor(buf, pointLength, nil, DefaultParallelOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := pd.Seek(6); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, pointLength)
	if err := pd.ReadPoint(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, points[6]) {
		t.Errorf("after Seek(6): got %v, want %v", got, points[6])
	}
}
