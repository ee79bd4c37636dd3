package las

// PointFormat describes the on-disk layout selected by a point format
// code (0..10): which optional sections are present, whether the record
// uses the legacy or extended flag layout, and how many trailing extra
// bytes each point carries.
//
// PointFormat is immutable and comparable; the zero value is format 0
// with zero extra bytes.
type PointFormat struct {
	code       uint8
	extraBytes int
}

// NewPointFormat builds a PointFormat for a given ASPRS format code and
// extra-byte count. It fails with InvalidFormatNumberError if code is
// outside 0..10.
func NewPointFormat(code uint8, extraBytes int) (PointFormat, error) {
	if code > 10 {
		return PointFormat{}, &InvalidFormatNumberError{Format: code}
	}
	return PointFormat{code: code, extraBytes: extraBytes}, nil
}

// Code returns the raw ASPRS point format code (0..10).
func (f PointFormat) Code() uint8 { return f.code }

// ExtraBytes returns the number of trailing bytes this format carries
// beyond its base fields.
func (f PointFormat) ExtraBytes() int { return f.extraBytes }

// IsExtended reports whether this is an "extended" point format
// (code >= 6): 2-byte flags, 8-bit classification, 16-bit scaled scan
// angle, mandatory gps_time.
func (f PointFormat) IsExtended() bool { return f.code >= 6 }

// HasGpsTime reports whether points of this format carry a gps_time
// field. Extended formats always do; legacy formats 1 and 3 do.
func (f PointFormat) HasGpsTime() bool {
	if f.IsExtended() {
		return true
	}
	switch f.code {
	case 1, 3:
		return true
	default:
		return false
	}
}

// HasColor reports whether points of this format carry an RGB color.
func (f PointFormat) HasColor() bool {
	switch f.code {
	case 2, 3, 5, 7, 8, 10:
		return true
	default:
		return false
	}
}

// HasNir reports whether points of this format carry a near-infrared
// channel. Only legal on extended formats 8 and 10.
func (f PointFormat) HasNir() bool {
	return f.code == 8 || f.code == 10
}

// HasWaveform reports whether points of this format carry a waveform
// packet descriptor.
func (f PointFormat) HasWaveform() bool {
	switch f.code {
	case 4, 5, 9, 10:
		return true
	default:
		return false
	}
}

// baseLength returns base_length(format): the on-disk record length with
// zero extra bytes.
func (f PointFormat) baseLength() int {
	length := 20
	if f.HasGpsTime() {
		length += 8
	}
	if f.HasColor() {
		length += 6
	}
	if f.HasNir() {
		length += 2
	}
	if f.HasWaveform() {
		length += 29
	}
	if f.IsExtended() {
		length += 2
	}
	return length
}

// Length returns the full on-disk record length: base_length(format) +
// extra_bytes.
func (f PointFormat) Length() int { return f.baseLength() + f.extraBytes }

// SupportedByVersion reports whether v is allowed to carry this point
// format.
func (f PointFormat) SupportedByVersion(v Version) bool {
	switch {
	case f.code <= 5:
		if f.HasColor() && !v.HasColorPointFormats() {
			return false
		}
		if f.HasWaveform() && !v.HasWaveforms() {
			return false
		}
		return true
	case f.code <= 10:
		return v.Minor == 4
	default:
		return false
	}
}

// formatFeatures is the feature tuple used by FormatForFeatures' inverse
// lookup.
type formatFeatures struct {
	extended bool
	gpsTime  bool
	color    bool
	nir      bool
	waveform bool
}

// formatTable enumerates every legal (features -> code) mapping. Illegal
// combinations (e.g. nir without color, waveform without gps_time) are
// simply absent, making the reverse lookup in FormatForFeatures partial
// by construction.
var formatTable = map[formatFeatures]uint8{
	{extended: false, gpsTime: false, color: false, waveform: false}: 0,
	{extended: false, gpsTime: true, color: false, waveform: false}:  1,
	{extended: false, gpsTime: false, color: true, waveform: false}:  2,
	{extended: false, gpsTime: true, color: true, waveform: false}:   3,
	{extended: false, gpsTime: true, color: false, waveform: true}:   4,
	{extended: false, gpsTime: true, color: true, waveform: true}:    5,
	{extended: true, gpsTime: true, color: false, nir: false, waveform: false}: 6,
	{extended: true, gpsTime: true, color: true, nir: false, waveform: false}:  7,
	{extended: true, gpsTime: true, color: true, nir: true, waveform: false}:   8,
	{extended: true, gpsTime: true, color: false, nir: false, waveform: true}:  9,
	{extended: true, gpsTime: true, color: true, nir: true, waveform: true}:    10,
}

// FormatForFeatures resolves a desired feature tuple to the unique point
// format code implementing it, failing with InvalidFormatCombinationError
// when no legal format exists (e.g. waveform without gps_time, extended
// without gps_time, nir without extended, nir without color).
func FormatForFeatures(extended, gpsTime, color, nir, waveform bool, extraBytes int) (PointFormat, error) {
	if waveform && !gpsTime {
		return PointFormat{}, &InvalidFormatCombinationError{Reason: "waveform requires gps_time"}
	}
	if extended && !gpsTime {
		return PointFormat{}, &InvalidFormatCombinationError{Reason: "extended point formats require gps_time"}
	}
	if nir && !extended {
		return PointFormat{}, &InvalidFormatCombinationError{Reason: "nir requires an extended point format"}
	}
	if nir && !color {
		return PointFormat{}, &InvalidFormatCombinationError{Reason: "nir requires color"}
	}
	key := formatFeatures{extended: extended, gpsTime: gpsTime, color: color, nir: nir, waveform: waveform}
	code, ok := formatTable[key]
	if !ok {
		return PointFormat{}, &InvalidFormatCombinationError{Reason: "no point format implements this feature combination"}
	}
	return NewPointFormat(code, extraBytes)
}
