package las

// Vlr is a Variable-Length Record: a 54-byte header plus payload, sitting
// between the file header and the point region.
type Vlr struct {
	Reserved      uint16
	UserID        string // <= 16 ASCII bytes
	RecordID      uint16
	Description   string // <= 32 ASCII bytes
	Data          []byte
}

// RecordLength returns the payload length as it would be written to the
// 16-bit record_length_after_header field. Callers needing to know
// whether this VLR must be promoted to an Evlr should check
// len(Data) > 65535 directly.
func (v Vlr) RecordLength() uint16 { return uint16(len(v.Data)) }

// Evlr is an Extended VLR: a 60-byte header plus a u64-sized payload,
// living after the point region on version 1.4 files.
type Evlr struct {
	Reserved    uint16
	UserID      string
	RecordID    uint16
	Description string
	Data        []byte
}

// LaszipVlrUserID and LaszipVlrRecordID identify the VLR that carries the
// LAZ item schema produced by the LAZ adapter.
const (
	LaszipVlrUserID   = "laszip encoded"
	LaszipVlrRecordID = 22204
)

// CopcInfoUserID, CopcInfoRecordID, CopcHierarchyRecordID identify the two
// VLRs that mark a COPC file.
const (
	CopcInfoUserID        = "copc"
	CopcInfoRecordID      = 1
	CopcHierarchyRecordID = 1000
)

// ExtraBytesVlrUserID and ExtraBytesVlrRecordID identify the VLR carrying
// the extra-bytes descriptor array.
const (
	ExtraBytesVlrUserID   = "LASF_Spec"
	ExtraBytesVlrRecordID = 4
)
