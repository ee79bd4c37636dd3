package las

import "math"

// Transform is the per-axis (scale, offset) pair that turns a stored i32
// coordinate into a real-world float64.
//
//	direct(i)  = scale*i + offset
//	inverse(f) = round((f - offset) / scale)
type Transform struct {
	Scale  float64
	Offset float64
}

// Direct converts a stored integer coordinate to its real-world value.
func (t Transform) Direct(i int32) float64 {
	return t.Scale*float64(i) + t.Offset
}

// Inverse converts a real-world value back to a stored integer
// coordinate, failing with InverseTransformOutOfRangeError when the
// rounded value does not fit in an int32.
func (t Transform) Inverse(f float64) (int32, error) {
	rounded := math.Round((f - t.Offset) / t.Scale)
	if rounded > math.MaxInt32 || rounded < math.MinInt32 || math.IsNaN(rounded) {
		return 0, &InverseTransformOutOfRangeError{Value: f, Transform: t}
	}
	return int32(rounded), nil
}

// Transforms bundles the three axis transforms a header carries.
type Transforms struct {
	X, Y, Z Transform
}

// Bounds is a min/max pair in ℝ³. A zero-value Bounds does not represent
// "no points" — use NewEmptyBounds for that, since the written invariant
// is (+Inf, -Inf) until the first point grows it.
type Bounds struct {
	Min, Max Vector3
}

// NewEmptyBounds returns the Bounds a fresh Writer starts with: every min
// component at +Inf, every max component at -Inf, so that the first
// Grow call establishes real bounds on every axis independently.
func NewEmptyBounds() Bounds {
	return Bounds{
		Min: Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// Grow expands b in place to include p, componentwise.
func (b *Bounds) Grow(p Vector3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// Empty reports whether no point has ever grown these bounds.
func (b Bounds) Empty() bool {
	return math.IsInf(b.Min.X, 1) && math.IsInf(b.Max.X, -1)
}
