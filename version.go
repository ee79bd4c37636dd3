package las

import "fmt"

// Version is the (major, minor) pair at the top of every LAS header.
// go-las supports 1.0 through 1.4; major is always 1 in practice but is
// kept explicit since it is a real on-disk field.
type Version struct {
	Major uint8
	Minor uint8
}

// String renders the version the way ASPRS documentation does: "1.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported reports whether minor is one of the versions this library
// understands (0 through 4). Major is not range-checked beyond equality
// with 1, since every ASPRS LAS revision to date is 1.x.
func (v Version) Supported() bool {
	return v.Major == 1 && v.Minor <= 4
}

// HasFileSourceId reports whether this version gives file_source_id
// defined meaning.
func (v Version) HasFileSourceId() bool { return v.Minor >= 1 }

// HasGpsStandardTime reports whether GpsTimeType.Standard is legal on this
// version (>= 1.2).
func (v Version) HasGpsStandardTime() bool { return v.Minor >= 2 }

// HasColorPointFormats reports whether color-bearing point formats are
// permitted on this version (>= 1.2).
func (v Version) HasColorPointFormats() bool { return v.Minor >= 2 }

// HasWaveforms reports whether waveform point formats are permitted on
// this version (>= 1.3).
func (v Version) HasWaveforms() bool { return v.Minor >= 3 }

// HasLargeFiles reports whether the 64-bit point-count header tail is
// present (only 1.4).
func (v Version) HasLargeFiles() bool { return v.Minor == 4 }

// HasEvlrs reports whether EVLRs are supported (only 1.4).
func (v Version) HasEvlrs() bool { return v.Minor == 4 }

// HeaderSize returns the canonical (undamaged) on-disk header size for
// this version: the fixed 227-byte v1.2 prefix, plus the v1.3 and v1.4
// tails when present.
func (v Version) HeaderSize() uint16 {
	size := uint16(227)
	if v.Minor >= 3 {
		size += 8 // start_of_waveform_data_packet_record
	}
	if v.Minor >= 4 {
		size += 140 // start_of_first_evlr, number_of_evlrs, 64-bit counts
	}
	return size
}

// GpsTimeType selects how the point gps_time field is interpreted.
type GpsTimeType int

const (
	// GpsTimeWeek interprets gps_time as GPS week time.
	GpsTimeWeek GpsTimeType = iota
	// GpsTimeStandard interprets gps_time as standard GPS time (requires >= 1.2).
	GpsTimeStandard
)

func (t GpsTimeType) String() string {
	if t == GpsTimeStandard {
		return "standard"
	}
	return "week"
}
