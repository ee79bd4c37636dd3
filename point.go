package las

// Point is the in-memory value type for one LAS point record. Coordinates
// are real-world float64 values; callers never see the on-disk scaled
// integers directly.
//
// Optional fields are plain values rather than pointers; which ones are
// meaningful is determined entirely by the PointFormat a Point is
// encoded/decoded against — Writer.WritePoint rejects a Point whose
// optional-field *presence* (tracked via the Has* booleans below) does
// not exactly match the target format.
type Point struct {
	X, Y, Z float64

	Intensity uint16

	ReturnNumber    uint8
	NumberOfReturns uint8

	ScanDirection       ScanDirection
	IsEdgeOfFlightLine  bool
	Classification      Classification
	Synthetic           bool
	KeyPoint            bool
	Withheld            bool
	Overlap             bool // extended formats only
	ScannerChannel      uint8 // extended formats only, 0..3

	ScanAngle float64 // degrees; legacy stores an i8 rank, extended a scaled i16
	UserData  uint8

	PointSourceID uint16

	GpsTime    float64
	HasGpsTime bool

	Color    Color
	HasColor bool

	Nir    uint16
	HasNir bool

	Waveform    Waveform
	HasWaveform bool

	ExtraBytes []byte
}

// Coordinates returns the point's position as a Vector3.
func (p Point) Coordinates() Vector3 { return Vector3{X: p.X, Y: p.Y, Z: p.Z} }

// maxReturnNumber and maxNumberOfReturns return the largest legal value
// for these fields given a format's flag layout (3-bit legacy vs 4-bit
// extended).
func maxReturnNumber(f PointFormat) uint8 {
	if f.IsExtended() {
		return 15
	}
	return 7
}

func maxNumberOfReturns(f PointFormat) uint8 {
	if f.IsExtended() {
		return 15
	}
	return 7
}
