package las

import "fmt"

// FileSignatureMismatchError indicates the first four bytes were not "LASF".
type FileSignatureMismatchError struct {
	Got [4]byte
}

func (e *FileSignatureMismatchError) Error() string {
	return fmt.Sprintf("las: file signature mismatch: got %q, want \"LASF\"", e.Got[:])
}

// HeaderSizeTooSmallError indicates the declared header size is smaller
// than the minimum required by the header's own version.
type HeaderSizeTooSmallError struct {
	Declared uint16
	Minimum  uint16
}

func (e *HeaderSizeTooSmallError) Error() string {
	return fmt.Sprintf("las: header_size %d is smaller than minimum %d for this version", e.Declared, e.Minimum)
}

// OffsetToPointDataTooSmallError indicates the header/VLR region overruns
// offset_to_point_data.
type OffsetToPointDataTooSmallError struct {
	Consumed uint32
	Declared uint32
}

func (e *OffsetToPointDataTooSmallError) Error() string {
	return fmt.Sprintf("las: offset_to_point_data %d is smaller than the %d bytes consumed by header+VLRs", e.Declared, e.Consumed)
}

// OffsetToEvlrsTooSmallError indicates start_of_first_evlr overruns the
// computed end of the point region.
type OffsetToEvlrsTooSmallError struct {
	EndOfPoints uint64
	Declared    uint64
}

func (e *OffsetToEvlrsTooSmallError) Error() string {
	return fmt.Sprintf("las: start_of_first_evlr %d is smaller than end of point data %d", e.Declared, e.EndOfPoints)
}

// PointDataRecordLengthError indicates point_data_record_length is smaller
// than the point format's base length.
type PointDataRecordLengthError struct {
	Declared uint16
	Minimum  uint16
	Format   uint8
}

func (e *PointDataRecordLengthError) Error() string {
	return fmt.Sprintf("las: point_data_record_length %d is smaller than base length %d for format %d", e.Declared, e.Minimum, e.Format)
}

// FeatureNotSupportedError indicates a header feature is used on a version
// too old to support it.
type FeatureNotSupportedError struct {
	Version Version
	Feature string
}

func (e *FeatureNotSupportedError) Error() string {
	return fmt.Sprintf("las: feature %q is not supported by version %s", e.Feature, e.Version)
}

// UnsupportedFormatForVersionError indicates a point format is not legal on
// the target version.
type UnsupportedFormatForVersionError struct {
	Format  uint8
	Version Version
}

func (e *UnsupportedFormatForVersionError) Error() string {
	return fmt.Sprintf("las: point format %d is not supported by version %s", e.Format, e.Version)
}

// InvalidFormatCombinationError indicates a requested feature tuple has no
// legal point format code.
type InvalidFormatCombinationError struct {
	Reason string
}

func (e *InvalidFormatCombinationError) Error() string {
	return fmt.Sprintf("las: invalid point format combination: %s", e.Reason)
}

// InvalidFormatNumberError indicates a point format code outside 0..10.
type InvalidFormatNumberError struct {
	Format uint8
}

func (e *InvalidFormatNumberError) Error() string {
	return fmt.Sprintf("las: invalid point format number %d, must be 0..10", e.Format)
}

// MissingGpsTimeError indicates a point format requires gps_time but none
// was supplied.
type MissingGpsTimeError struct{}

func (e *MissingGpsTimeError) Error() string { return "las: point format requires gps_time but none was supplied" }

// MissingColorError indicates a point format requires color but none was
// supplied.
type MissingColorError struct{}

func (e *MissingColorError) Error() string { return "las: point format requires color but none was supplied" }

// MissingNirError indicates a point format requires NIR but none was
// supplied.
type MissingNirError struct{}

func (e *MissingNirError) Error() string { return "las: point format requires nir but none was supplied" }

// MissingWaveformError indicates a point format requires a waveform record
// but none was supplied.
type MissingWaveformError struct{}

func (e *MissingWaveformError) Error() string {
	return "las: point format requires a waveform record but none was supplied"
}

// MissingExtraBytesError indicates the supplied extra bytes length does not
// match the format's declared extra_bytes count.
type MissingExtraBytesError struct {
	Want, Got int
}

func (e *MissingExtraBytesError) Error() string {
	return fmt.Sprintf("las: point extra_bytes length %d does not match format's %d", e.Got, e.Want)
}

// InvalidReturnNumberError indicates a return_number exceeds its field width.
type InvalidReturnNumberError struct {
	Value    uint8
	MaxValue uint8
}

func (e *InvalidReturnNumberError) Error() string {
	return fmt.Sprintf("las: return_number %d exceeds maximum %d for this format", e.Value, e.MaxValue)
}

// InvalidNumberOfReturnsError indicates number_of_returns exceeds its field
// width.
type InvalidNumberOfReturnsError struct {
	Value    uint8
	MaxValue uint8
}

func (e *InvalidNumberOfReturnsError) Error() string {
	return fmt.Sprintf("las: number_of_returns %d exceeds maximum %d for this format", e.Value, e.MaxValue)
}

// InvalidScannerChannelError indicates a scanner_channel value outside 0..3.
type InvalidScannerChannelError struct {
	Value uint8
}

func (e *InvalidScannerChannelError) Error() string {
	return fmt.Sprintf("las: scanner_channel %d is outside the valid range 0..3", e.Value)
}

// InvalidClassificationError indicates a classification value that cannot
// be encoded in the target format's field width.
type InvalidClassificationError struct {
	Value uint8
}

func (e *InvalidClassificationError) Error() string {
	return fmt.Sprintf("las: classification %d cannot be encoded in a legacy (5-bit) point format", e.Value)
}

// InverseTransformOutOfRangeError indicates a float coordinate cannot be
// represented as an i32 under the given transform.
type InverseTransformOutOfRangeError struct {
	Value     float64
	Transform Transform
}

func (e *InverseTransformOutOfRangeError) Error() string {
	return fmt.Sprintf("las: value %g is out of i32 range under transform %+v", e.Value, e.Transform)
}

// NotAsciiError indicates a fixed-width string field contained non-ASCII
// bytes.
type NotAsciiError struct {
	Field string
}

func (e *NotAsciiError) Error() string { return fmt.Sprintf("las: field %q is not ASCII", e.Field) }

// NotZeroFilledError indicates a fixed-width string field's padding tail
// was not zero-filled.
type NotZeroFilledError struct {
	Field string
}

func (e *NotZeroFilledError) Error() string {
	return fmt.Sprintf("las: field %q padding is not zero-filled", e.Field)
}

// StringTooLongError indicates a string exceeds its fixed-width slot.
type StringTooLongError struct {
	Field string
	Max   int
	Got   int
}

func (e *StringTooLongError) Error() string {
	return fmt.Sprintf("las: field %q is %d bytes, exceeds max %d", e.Field, e.Got, e.Max)
}

// VlrDataTooLongError indicates a VLR's payload exceeds 65535 bytes and
// requires EVLR promotion.
type VlrDataTooLongError struct {
	Length int
}

func (e *VlrDataTooLongError) Error() string {
	return fmt.Sprintf("las: VLR payload length %d exceeds 65535, requires EVLR promotion (needs version 1.4)", e.Length)
}

// ClosedWriterError indicates a write was attempted after Close.
type ClosedWriterError struct{}

func (e *ClosedWriterError) Error() string { return "las: write attempted on a closed writer" }

// LaszipNotEnabledError indicates compressed I/O was requested without a
// laz.Compressor/Decompressor. Reader and Writer also return it when the
// laszip item-schema VLR is absent from a compressed header.
type LaszipNotEnabledError struct{}

func (e *LaszipNotEnabledError) Error() string {
	return "las: point format is compressed but no LAZ codec was configured"
}

// UnexpectedEofError indicates a short read inside a fixed-width record.
type UnexpectedEofError struct {
	Context string
}

func (e *UnexpectedEofError) Error() string { return fmt.Sprintf("las: unexpected EOF while reading %s", e.Context) }
