package las

import (
	"testing"

	"github.com/go-las/las/internal/rawio"
)

func TestBuilderDefaultBuild(t *testing.T) {
	b := NewDefaultBuilder(Version{1, 2})
	b.raw.PointDataRecordLength = 20 // format 0, no extras
	h, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if h.Version != (Version{1, 2}) {
		t.Errorf("Version = %+v", h.Version)
	}
	if h.PointFormat.Code() != 0 {
		t.Errorf("PointFormat.Code() = %d, want 0", h.PointFormat.Code())
	}
	if h.Transforms.X.Scale != 0.001 {
		t.Errorf("X scale = %v, want 0.001", h.Transforms.X.Scale)
	}
}

func TestBuilderRejectsUnsupportedVersion(t *testing.T) {
	raw := &rawio.RawHeader{VersionMajor: 1, VersionMinor: 9}
	_, err := NewBuilder(raw).Build()
	if err == nil {
		t.Fatal("expected an error for an unsupported version")
	}
	if _, ok := err.(*UnsupportedFormatForVersionError); !ok {
		t.Fatalf("got %T, want *UnsupportedFormatForVersionError", err)
	}
}

func TestBuilderRejectsShortPointRecordLength(t *testing.T) {
	raw := &rawio.RawHeader{VersionMajor: 1, VersionMinor: 2, PointDataRecordLength: 10}
	_, err := NewBuilder(raw).Build()
	if _, ok := err.(*PointDataRecordLengthError); !ok {
		t.Fatalf("got %T, want *PointDataRecordLengthError", err)
	}
}

func TestBuilderExtraBytesFromSurplusLength(t *testing.T) {
	raw := &rawio.RawHeader{VersionMajor: 1, VersionMinor: 2, PointDataRecordLength: 26}
	h, err := NewBuilder(raw).Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := h.PointFormat.ExtraBytes(); got != 6 {
		t.Errorf("ExtraBytes() = %d, want 6 (26 - base_length(0)=20)", got)
	}
}

func TestBuilderRecognizesExistingV10Sentinel(t *testing.T) {
	raw := &rawio.RawHeader{VersionMajor: 1, VersionMinor: 0, PointDataRecordLength: 20}
	b := NewBuilder(raw)
	b.SetVlrPadding([]byte{0x11, 0xDD, 0xCC})
	h, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(h.VlrPadding) != 3 {
		t.Fatalf("VlrPadding = %v, want the original 3-byte padding preserved, not a freshly synthesized sentinel", h.VlrPadding)
	}
}

func TestBuilderSynthesizesV10SentinelWhenAbsent(t *testing.T) {
	raw := &rawio.RawHeader{VersionMajor: 1, VersionMinor: 0, PointDataRecordLength: 20}
	h, err := NewBuilder(raw).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !hasV10Sentinel(h.VlrPadding) {
		t.Fatalf("VlrPadding = %v, want a synthesized 0xDD 0xCC sentinel", h.VlrPadding)
	}
}

func TestNormalizeVlrsPromotesOversizedVlrOnV14(t *testing.T) {
	big := Vlr{UserID: "test", Data: make([]byte, 70000)}
	vlrs, evlrs, err := normalizeVlrs([]Vlr{big}, nil, Version{1, 4})
	if err != nil {
		t.Fatalf("normalizeVlrs: %v", err)
	}
	if len(vlrs) != 0 || len(evlrs) != 1 {
		t.Fatalf("got %d vlrs, %d evlrs, want 0 vlrs 1 evlr", len(vlrs), len(evlrs))
	}
}

func TestNormalizeVlrsRejectsOversizedVlrBelowV14(t *testing.T) {
	big := Vlr{UserID: "test", Data: make([]byte, 70000)}
	_, _, err := normalizeVlrs([]Vlr{big}, nil, Version{1, 3})
	if _, ok := err.(*VlrDataTooLongError); !ok {
		t.Fatalf("got %T, want *VlrDataTooLongError", err)
	}
}

func TestNormalizeVlrsDemotesEvlrBelowV14(t *testing.T) {
	e := Evlr{UserID: "test", Data: []byte{1, 2, 3}}
	vlrs, evlrs, err := normalizeVlrs(nil, []Evlr{e}, Version{1, 2})
	if err != nil {
		t.Fatalf("normalizeVlrs: %v", err)
	}
	if len(vlrs) != 1 || len(evlrs) != 0 {
		t.Fatalf("got %d vlrs, %d evlrs, want 1 vlr 0 evlrs", len(vlrs), len(evlrs))
	}
}
