package copc

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/go-las/las"
)

// indexedEntry pairs an Entry with the rtreego.Rect rtreego needs to
// index it; Entry itself can't implement rtreego.Spatial directly since
// its bounds depend on the Info the entry came from.
type indexedEntry struct {
	entry Entry
	rect  rtreego.Rect
}

func (e indexedEntry) Bounds() rtreego.Rect { return e.rect }

// SpatialIndex answers bounding-box queries over a set of hierarchy
// entries using a 3-D R-tree.
type SpatialIndex struct {
	rtree *rtreego.Rtree
}

// NewSpatialIndex builds a 3-D R-tree over entries, skipping page
// references and empty voxels (neither carries point data worth
// returning from a query).
func NewSpatialIndex(info *Info, entries []Entry) (*SpatialIndex, error) {
	rtree := rtreego.NewTree(3, 25, 50)
	for _, e := range entries {
		if e.IsPageReference() || e.IsEmpty() {
			continue
		}
		b := e.Key.Bounds(info)
		point := rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}
		lengths := []float64{
			nonZero(b.Max.X - b.Min.X),
			nonZero(b.Max.Y - b.Min.Y),
			nonZero(b.Max.Z - b.Min.Z),
		}
		rect, err := rtreego.NewRect(point, lengths)
		if err != nil {
			return nil, fmt.Errorf("copc: building spatial index for entry %s: %w", e.Key, err)
		}
		rtree.Insert(indexedEntry{entry: e, rect: rect})
	}
	return &SpatialIndex{rtree: rtree}, nil
}

// nonZero guards against degenerate (zero-extent) voxel bounds, which
// rtreego.NewRect rejects as invalid rectangles.
func nonZero(v float64) float64 {
	if v <= 0 {
		return 1e-9
	}
	return v
}

// Query returns every indexed entry whose voxel bounds intersect b.
func (idx *SpatialIndex) Query(b las.Bounds) []Entry {
	point := rtreego.Point{b.Min.X, b.Min.Y, b.Min.Z}
	lengths := []float64{
		nonZero(b.Max.X - b.Min.X),
		nonZero(b.Max.Y - b.Min.Y),
		nonZero(b.Max.Z - b.Min.Z),
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	spatials := idx.rtree.SearchIntersect(rect)
	out := make([]Entry, 0, len(spatials))
	for _, s := range spatials {
		out = append(out, s.(indexedEntry).entry)
	}
	return out
}
