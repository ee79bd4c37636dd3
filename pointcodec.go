package las

import (
	"fmt"

	"github.com/go-las/las/internal/rawio"
)

// layoutFor projects a PointFormat's feature flags into the shape the
// raw codec needs to lay out a record.
func layoutFor(f PointFormat) rawio.PointLayout {
	return rawio.PointLayout{
		Extended:    f.IsExtended(),
		HasGpsTime:  f.HasGpsTime(),
		HasColor:    f.HasColor(),
		HasNir:      f.HasNir(),
		HasWaveform: f.HasWaveform(),
		ExtraBytes:  f.extraBytes,
	}
}

// DecodePoint turns one raw, fixed-layout record into a Point, applying
// the header's coordinate transforms and format layout. It is exported
// for consumers that read point records outside a Reader's own
// sequential stream, such as the copc package's entry-based random
// access.
func DecodePoint(buf []byte, f PointFormat, t Transforms) (Point, error) {
	return decodePoint(buf, f, t)
}

// decodePoint turns one raw, fixed-layout record into a Point, applying
// the header's coordinate transforms and folding the legacy/extended
// flag layouts into the format-independent Point shape.
func decodePoint(buf []byte, f PointFormat, t Transforms) (Point, error) {
	rp, err := rawio.DecodePoint(buf, layoutFor(f))
	if err != nil {
		return Point{}, err
	}

	p := Point{
		X:             t.X.Direct(rp.X),
		Y:             t.Y.Direct(rp.Y),
		Z:             t.Z.Direct(rp.Z),
		Intensity:     rp.Intensity,
		UserData:      rp.UserData,
		PointSourceID: rp.PointSourceID,
	}

	if f.IsExtended() {
		p.ReturnNumber = rp.ReturnNumber4
		p.NumberOfReturns = rp.NumberOfReturns4
		p.Synthetic = rp.ClassFlagSynthetic
		p.KeyPoint = rp.ClassFlagKeyPoint
		p.Withheld = rp.ClassFlagWithheld
		p.Overlap = rp.ClassFlagOverlap
		p.ScannerChannel = rp.ScannerChannel
		p.ScanDirection = ScanDirection(rp.ScanDirectionBitE)
		p.IsEdgeOfFlightLine = rp.EdgeOfFlightLineE != 0
		p.Classification = NewClassification(rp.Classification8)
		p.ScanAngle = float64(rp.ScanAngleScaled) * 0.006
		p.GpsTime = rp.GpsTime
		p.HasGpsTime = true
	} else {
		p.ReturnNumber = rp.ReturnNumber3
		p.NumberOfReturns = rp.NumberOfReturns3
		p.Synthetic = rp.Synthetic
		p.KeyPoint = rp.KeyPoint
		p.Withheld = rp.Withheld
		p.ScanDirection = ScanDirection(rp.ScanDirectionBit)
		p.IsEdgeOfFlightLine = rp.EdgeOfFlightLine != 0
		p.Classification = NewClassification(rp.Classification5)
		p.ScanAngle = float64(rp.ScanAngleRank)
		if f.HasGpsTime() {
			p.GpsTime = rp.GpsTime
			p.HasGpsTime = true
		}
	}

	if f.HasColor() {
		p.Color = Color{Red: rp.Red, Green: rp.Green, Blue: rp.Blue}
		p.HasColor = true
	}
	if f.HasNir() {
		p.Nir = rp.Nir
		p.HasNir = true
	}
	if f.HasWaveform() {
		p.Waveform = Waveform{
			PacketDescriptorIndex: rp.WaveformPacketDescriptorIndex,
			ByteOffset:            rp.WaveformByteOffset,
			PacketSize:            rp.WaveformPacketSize,
			ReturnPointLocation:   rp.WaveformReturnPointLocation,
			Location: Vector3{
				X: float64(rp.WaveformX),
				Y: float64(rp.WaveformY),
				Z: float64(rp.WaveformZ),
			},
		}
		p.HasWaveform = true
	}
	p.ExtraBytes = rp.ExtraBytes

	return p, nil
}

// encodePoint validates p against f's requirements and converts it to a
// raw record, applying the header's coordinate transforms in reverse.
func encodePoint(p Point, f PointFormat, t Transforms) (*rawio.RawPoint, error) {
	if p.HasGpsTime != f.HasGpsTime() {
		if f.HasGpsTime() {
			return nil, &MissingGpsTimeError{}
		}
		return nil, fmt.Errorf("las: point carries gps_time but point format %d has none", f.Code())
	}
	if p.HasColor != f.HasColor() {
		if f.HasColor() {
			return nil, &MissingColorError{}
		}
		return nil, fmt.Errorf("las: point carries color but point format %d has none", f.Code())
	}
	if p.HasNir != f.HasNir() {
		if f.HasNir() {
			return nil, &MissingNirError{}
		}
		return nil, fmt.Errorf("las: point carries nir but point format %d has none", f.Code())
	}
	if p.HasWaveform != f.HasWaveform() {
		if f.HasWaveform() {
			return nil, &MissingWaveformError{}
		}
		return nil, fmt.Errorf("las: point carries a waveform but point format %d has none", f.Code())
	}
	if len(p.ExtraBytes) != f.extraBytes {
		return nil, &MissingExtraBytesError{Want: f.extraBytes, Got: len(p.ExtraBytes)}
	}

	maxReturn := maxReturnNumber(f)
	if p.ReturnNumber > maxReturn {
		return nil, &InvalidReturnNumberError{Value: p.ReturnNumber, MaxValue: maxReturn}
	}
	maxReturns := maxNumberOfReturns(f)
	if p.NumberOfReturns > maxReturns {
		return nil, &InvalidNumberOfReturnsError{Value: p.NumberOfReturns, MaxValue: maxReturns}
	}
	if f.IsExtended() {
		if p.ScannerChannel > 3 {
			return nil, &InvalidScannerChannelError{Value: p.ScannerChannel}
		}
	} else {
		if p.Classification.Code() > 31 {
			return nil, &InvalidClassificationError{Value: p.Classification.Code()}
		}
	}

	x, err := t.X.Inverse(p.X)
	if err != nil {
		return nil, err
	}
	y, err := t.Y.Inverse(p.Y)
	if err != nil {
		return nil, err
	}
	z, err := t.Z.Inverse(p.Z)
	if err != nil {
		return nil, err
	}

	rp := &rawio.RawPoint{
		X: x, Y: y, Z: z,
		Intensity:     p.Intensity,
		UserData:      p.UserData,
		PointSourceID: p.PointSourceID,
		ExtraBytes:    p.ExtraBytes,
	}

	if f.IsExtended() {
		rp.ReturnNumber4 = p.ReturnNumber
		rp.NumberOfReturns4 = p.NumberOfReturns
		rp.ClassFlagSynthetic = p.Synthetic
		rp.ClassFlagKeyPoint = p.KeyPoint
		rp.ClassFlagWithheld = p.Withheld
		rp.ClassFlagOverlap = p.Overlap
		rp.ScannerChannel = p.ScannerChannel
		rp.ScanDirectionBitE = uint8(p.ScanDirection)
		if p.IsEdgeOfFlightLine {
			rp.EdgeOfFlightLineE = 1
		}
		rp.Classification8 = p.Classification.Code()
		rp.ScanAngleScaled = int16(p.ScanAngle / 0.006)
		rp.GpsTime = p.GpsTime
	} else {
		rp.ReturnNumber3 = p.ReturnNumber
		rp.NumberOfReturns3 = p.NumberOfReturns
		rp.Synthetic = p.Synthetic
		rp.KeyPoint = p.KeyPoint
		rp.Withheld = p.Withheld
		rp.ScanDirectionBit = uint8(p.ScanDirection)
		if p.IsEdgeOfFlightLine {
			rp.EdgeOfFlightLine = 1
		}
		rp.Classification5 = p.Classification.Code()
		rp.ScanAngleRank = int8(p.ScanAngle)
		if f.HasGpsTime() {
			rp.GpsTime = p.GpsTime
		}
	}

	if f.HasColor() {
		rp.Red, rp.Green, rp.Blue = p.Color.Red, p.Color.Green, p.Color.Blue
	}
	if f.HasNir() {
		rp.Nir = p.Nir
	}
	if f.HasWaveform() {
		rp.WaveformPacketDescriptorIndex = p.Waveform.PacketDescriptorIndex
		rp.WaveformByteOffset = p.Waveform.ByteOffset
		rp.WaveformPacketSize = p.Waveform.PacketSize
		rp.WaveformReturnPointLocation = p.Waveform.ReturnPointLocation
		rp.WaveformX = float32(p.Waveform.Location.X)
		rp.WaveformY = float32(p.Waveform.Location.Y)
		rp.WaveformZ = float32(p.Waveform.Location.Z)
	}

	return rp, nil
}
