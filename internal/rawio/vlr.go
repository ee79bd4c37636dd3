package rawio

import (
	"io"
)

// VlrHeaderSize and EvlrHeaderSize are the fixed header sizes preceding
// each record's payload.
const (
	VlrHeaderSize  = 54
	EvlrHeaderSize = 60
)

// RawVlr is the byte-exact decode of one Variable-Length Record.
type RawVlr struct {
	Reserved                uint16
	UserID                  [16]byte
	RecordID                uint16
	RecordLengthAfterHeader uint16
	Description             [32]byte
	Data                    []byte
}

// ReadVlr reads one 54-byte VLR header plus its payload.
func ReadVlr(r io.Reader) (*RawVlr, error) {
	buf := make([]byte, VlrHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	v := &RawVlr{}
	v.Reserved = byteOrder.Uint16(buf[0:2])
	copy(v.UserID[:], buf[2:18])
	v.RecordID = byteOrder.Uint16(buf[18:20])
	v.RecordLengthAfterHeader = byteOrder.Uint16(buf[20:22])
	copy(v.Description[:], buf[22:54])

	v.Data = make([]byte, v.RecordLengthAfterHeader)
	if _, err := io.ReadFull(r, v.Data); err != nil {
		return nil, err
	}
	return v, nil
}

// Write writes the 54-byte header followed by Data. UserID and
// Description are copied as the fixed-size byte arrays they already are.
// The record_length_after_header field is written as uint16(len(Data));
// the RecordLengthAfterHeader field is ignored, and a payload longer than
// 65535 bytes is not rejected here.
func (v *RawVlr) Write(w io.Writer) error {
	buf := make([]byte, VlrHeaderSize)
	byteOrder.PutUint16(buf[0:2], v.Reserved)
	copy(buf[2:18], v.UserID[:])
	byteOrder.PutUint16(buf[18:20], v.RecordID)
	byteOrder.PutUint16(buf[20:22], uint16(len(v.Data)))
	copy(buf[22:54], v.Description[:])
	if _, err := w.Write(buf); err != nil {
		return err
	}
	_, err := w.Write(v.Data)
	return err
}

// RawEvlr is the byte-exact decode of one Extended VLR (u64-sized
// payload length, 60-byte header).
type RawEvlr struct {
	Reserved                uint16
	UserID                  [16]byte
	RecordID                uint16
	RecordLengthAfterHeader uint64
	Description             [32]byte
	Data                    []byte
}

// ReadEvlr reads one 60-byte EVLR header plus its payload.
func ReadEvlr(r io.Reader) (*RawEvlr, error) {
	buf := make([]byte, EvlrHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	e := &RawEvlr{}
	e.Reserved = byteOrder.Uint16(buf[0:2])
	copy(e.UserID[:], buf[2:18])
	e.RecordID = byteOrder.Uint16(buf[18:20])
	e.RecordLengthAfterHeader = byteOrder.Uint64(buf[20:28])
	copy(e.Description[:], buf[28:60])

	e.Data = make([]byte, e.RecordLengthAfterHeader)
	if _, err := io.ReadFull(r, e.Data); err != nil {
		return nil, err
	}
	return e, nil
}

// Write writes the 60-byte header followed by Data.
func (e *RawEvlr) Write(w io.Writer) error {
	buf := make([]byte, EvlrHeaderSize)
	byteOrder.PutUint16(buf[0:2], e.Reserved)
	copy(buf[2:18], e.UserID[:])
	byteOrder.PutUint16(buf[18:20], e.RecordID)
	byteOrder.PutUint64(buf[20:28], uint64(len(e.Data)))
	copy(buf[28:60], e.Description[:])
	if _, err := w.Write(buf); err != nil {
		return err
	}
	_, err := w.Write(e.Data)
	return err
}

// EncodeFixedASCII encodes s into a fixed-size, zero-padded ASCII byte
// array, failing with StringTooLongError if it doesn't fit or
// NotAsciiError if it contains a non-ASCII byte.
func EncodeFixedASCII(field string, s string, size int) ([]byte, error) {
	if len(s) > size {
		return nil, &StringTooLongError{Field: field, Max: size, Got: len(s)}
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return nil, &NotAsciiError{Field: field}
		}
	}
	out := make([]byte, size)
	copy(out, s)
	return out, nil
}

// DecodeFixedASCII decodes a fixed-size, zero-padded ASCII byte array
// back to a string, trimming the zero padding. It fails with
// NotAsciiError if any non-zero byte is outside the ASCII range.
func DecodeFixedASCII(field string, b []byte) (string, error) {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	for i := 0; i < n; i++ {
		if b[i] > 127 {
			return "", &NotAsciiError{Field: field}
		}
	}
	return string(b[:n]), nil
}
