package las

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-las/las/internal/rawio"
)

// Builder accepts a raw header plus separately accumulated VLRs and
// EVLRs and emits a normalized Header. Records are gathered first, the
// cross-version normalized view is derived second.
type Builder struct {
	raw          *rawio.RawHeader
	vlrs         []Vlr
	evlrs        []Evlr
	vlrPadding   []byte
	pointPadding []byte
}

// NewBuilder starts a Builder from a decoded raw header.
func NewBuilder(raw *rawio.RawHeader) *Builder {
	return &Builder{raw: raw}
}

// NewDefaultBuilder starts a Builder from default values keyed by
// version, the other construction path alongside NewBuilder's "from a
// raw header" path.
func NewDefaultBuilder(v Version) *Builder {
	raw := &rawio.RawHeader{
		FileSignature: rawio.FileSignature,
		VersionMajor:  v.Major,
		VersionMinor:  v.Minor,
		HeaderSize:    v.HeaderSize(),
	}
	guid, err := uuid.New().MarshalBinary()
	if err == nil {
		copy(raw.ProjectIDGUID[:], guid)
	}
	raw.XScaleFactor, raw.YScaleFactor, raw.ZScaleFactor = 0.001, 0.001, 0.001
	return &Builder{raw: raw}
}

// AddVlr accumulates one VLR to be included in the built header.
func (b *Builder) AddVlr(v Vlr) { b.vlrs = append(b.vlrs, v) }

// AddEvlr accumulates one EVLR to be included in the built header.
func (b *Builder) AddEvlr(e Evlr) { b.evlrs = append(b.evlrs, e) }

// SetVlrPadding records the gap absorbed between the end of the last VLR
// and offset_to_point_data, carried onto the built Header verbatim.
func (b *Builder) SetVlrPadding(padding []byte) { b.vlrPadding = padding }

// SetPointPadding records the gap absorbed between the end of the point
// region and the first EVLR (or end of file), carried onto the built
// Header verbatim.
func (b *Builder) SetPointPadding(padding []byte) { b.pointPadding = padding }

// formatAndVersion resolves the version and point format a raw header
// declares, applying the same legality checks Build uses. Reader calls
// this ahead of a full Build to locate the EVLR segment, since that
// requires knowing the point record length before every VLR/EVLR has
// been collected.
func formatAndVersion(raw *rawio.RawHeader) (Version, PointFormat, error) {
	v := Version{Major: raw.VersionMajor, Minor: raw.VersionMinor}
	if !v.Supported() {
		return v, PointFormat{}, &UnsupportedFormatForVersionError{Format: raw.PointFormatCode(), Version: v}
	}

	code := raw.PointFormatCode()
	// point_data_record_length < base_length(format) -> error; excess is
	// absorbed as extra_bytes.
	bare, err := NewPointFormat(code, 0)
	if err != nil {
		return v, PointFormat{}, err
	}
	if int(raw.PointDataRecordLength) < bare.baseLength() {
		return v, PointFormat{}, &PointDataRecordLengthError{
			Declared: raw.PointDataRecordLength,
			Minimum:  uint16(bare.baseLength()),
			Format:   code,
		}
	}
	extra := int(raw.PointDataRecordLength) - bare.baseLength()
	format, err := NewPointFormat(code, extra)
	if err != nil {
		return v, PointFormat{}, err
	}
	if !format.SupportedByVersion(v) {
		return v, PointFormat{}, &UnsupportedFormatForVersionError{Format: code, Version: v}
	}
	return v, format, nil
}

// Build normalizes the accumulated raw header, VLRs and EVLRs into a
// Header.
func (b *Builder) Build() (*Header, error) {
	raw := b.raw
	v, format, err := formatAndVersion(raw)
	if err != nil {
		return nil, err
	}

	h := &Header{
		FileSourceID: raw.FileSourceID,
		Version:      v,
		PointFormat:  format,
		IsCompressed: raw.IsCompressed(),
	}
	copy(h.GUID[:], raw.ProjectIDGUID[:])

	if raw.GlobalEncoding&0x01 != 0 {
		h.GpsTimeType = GpsTimeStandard
	}
	if h.GpsTimeType == GpsTimeStandard && !v.HasGpsStandardTime() {
		return nil, &FeatureNotSupportedError{Version: v, Feature: "GpsStandardTime"}
	}
	if h.FileSourceID != 0 && !v.HasFileSourceId() {
		return nil, &FeatureNotSupportedError{Version: v, Feature: "FileSourceId"}
	}

	sysID, err := rawio.DecodeFixedASCII("system_identifier", raw.SystemIdentifier[:])
	if err != nil {
		return nil, err
	}
	h.SystemIdentifier = sysID
	genSoft, err := rawio.DecodeFixedASCII("generating_software", raw.GeneratingSoftware[:])
	if err != nil {
		return nil, err
	}
	h.GeneratingSoftware = genSoft

	h.CreationDay = raw.FileCreationDayOfYear
	h.CreationYear = raw.FileCreationYear

	h.Transforms = Transforms{
		X: Transform{Scale: raw.XScaleFactor, Offset: raw.XOffset},
		Y: Transform{Scale: raw.YScaleFactor, Offset: raw.YOffset},
		Z: Transform{Scale: raw.ZScaleFactor, Offset: raw.ZOffset},
	}
	h.Bounds = Bounds{
		Min: Vector3{X: raw.MinX, Y: raw.MinY, Z: raw.MinZ},
		Max: Vector3{X: raw.MaxX, Y: raw.MaxY, Z: raw.MaxZ},
	}

	// number_of_points is taken from the 64-bit field if nonzero (v1.4),
	// else the legacy 32-bit field.
	h.NumberOfPoints = raw.NumberOfPoints()
	h.NumberOfPointsByReturn = raw.NumberOfPointsByReturnWide()

	// VLR<->EVLR promotion/demotion.
	vlrs, evlrs, err := normalizeVlrs(b.vlrs, b.evlrs, v)
	if err != nil {
		return nil, err
	}
	h.Vlrs = vlrs
	h.Evlrs = evlrs

	h.HeaderPadding = raw.Padding
	h.VlrPadding = b.vlrPadding
	h.PointPadding = b.pointPadding

	// v1.0 requires a 2-byte sentinel 0xDD 0xCC immediately before the
	// point region.
	if v.Minor == 0 {
		if !hasV10Sentinel(h.VlrPadding) {
			h.VlrPadding = append(h.VlrPadding, 0xDD, 0xCC)
		}
	}

	return h, nil
}

// normalizeVlrs promotes/demotes between VLR and EVLR: a VLR whose
// payload exceeds 65535 bytes must be promoted to an EVLR (requires
// 1.4); an EVLR on <=1.3 is demoted to a VLR if it fits, else rejected.
func normalizeVlrs(vlrs []Vlr, evlrs []Evlr, v Version) ([]Vlr, []Evlr, error) {
	outVlrs := make([]Vlr, 0, len(vlrs))
	outEvlrs := make([]Evlr, 0, len(evlrs))

	for _, vlr := range vlrs {
		if len(vlr.Data) > 65535 {
			if !v.HasEvlrs() {
				return nil, nil, &VlrDataTooLongError{Length: len(vlr.Data)}
			}
			outEvlrs = append(outEvlrs, Evlr{
				Reserved:    vlr.Reserved,
				UserID:      vlr.UserID,
				RecordID:    vlr.RecordID,
				Description: vlr.Description,
				Data:        vlr.Data,
			})
			continue
		}
		outVlrs = append(outVlrs, vlr)
	}

	for _, evlr := range evlrs {
		if v.HasEvlrs() {
			outEvlrs = append(outEvlrs, evlr)
			continue
		}
		if len(evlr.Data) > 65535 {
			return nil, nil, fmt.Errorf("las: EVLR %q/%d does not fit as a VLR on version %s: %w",
				evlr.UserID, evlr.RecordID, v, &VlrDataTooLongError{Length: len(evlr.Data)})
		}
		outVlrs = append(outVlrs, Vlr{
			Reserved:    evlr.Reserved,
			UserID:      evlr.UserID,
			RecordID:    evlr.RecordID,
			Description: evlr.Description,
			Data:        evlr.Data,
		})
	}

	return outVlrs, outEvlrs, nil
}

func hasV10Sentinel(padding []byte) bool {
	return len(padding) >= 2 && padding[len(padding)-2] == 0xDD && padding[len(padding)-1] == 0xCC
}
