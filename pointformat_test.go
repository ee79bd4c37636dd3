package las

import "testing"

func TestPointFormatBaseLength(t *testing.T) {
	cases := []struct {
		code uint8
		want int
	}{
		{0, 20},
		{1, 28},
		{2, 26},
		{3, 34},
		{6, 30},
		{7, 36},
		{8, 38},
		{10, 67},
	}
	for _, c := range cases {
		f, err := NewPointFormat(c.code, 0)
		if err != nil {
			t.Fatalf("NewPointFormat(%d, 0): %v", c.code, err)
		}
		if got := f.baseLength(); got != c.want {
			t.Errorf("format %d baseLength() = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestPointFormatLengthIncludesExtraBytes(t *testing.T) {
	f, err := NewPointFormat(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Length(); got != 25 {
		t.Errorf("Length() = %d, want 25", got)
	}
}

func TestPointFormatInvalidCode(t *testing.T) {
	if _, err := NewPointFormat(11, 0); err == nil {
		t.Fatal("expected InvalidFormatNumberError for code 11")
	}
}

func TestPointFormatSupportedByVersion(t *testing.T) {
	v10 := Version{1, 0}
	v12 := Version{1, 2}
	v14 := Version{1, 4}

	f0, _ := NewPointFormat(0, 0)
	if !f0.SupportedByVersion(v10) {
		t.Error("format 0 should be legal on 1.0")
	}

	f2, _ := NewPointFormat(2, 0)
	if f2.SupportedByVersion(v10) {
		t.Error("format 2 (color) should not be legal on 1.0")
	}
	if !f2.SupportedByVersion(v12) {
		t.Error("format 2 (color) should be legal on 1.2")
	}

	f6, _ := NewPointFormat(6, 0)
	if f6.SupportedByVersion(v12) {
		t.Error("format 6 (extended) should not be legal on 1.2")
	}
	if !f6.SupportedByVersion(v14) {
		t.Error("format 6 (extended) should be legal on 1.4")
	}
}

func TestFormatForFeaturesRoundTrip(t *testing.T) {
	cases := []struct {
		extended, gpsTime, color, nir, waveform bool
		want                                    uint8
	}{
		{false, false, false, false, false, 0},
		{false, true, false, false, false, 1},
		{false, false, true, false, false, 2},
		{false, true, true, false, false, 3},
		{true, true, true, true, false, 8},
		{true, true, true, true, true, 10},
	}
	for _, c := range cases {
		f, err := FormatForFeatures(c.extended, c.gpsTime, c.color, c.nir, c.waveform, 0)
		if err != nil {
			t.Fatalf("FormatForFeatures(%+v): %v", c, err)
		}
		if f.Code() != c.want {
			t.Errorf("FormatForFeatures(%+v) = format %d, want %d", c, f.Code(), c.want)
		}
	}
}

func TestFormatForFeaturesIllegalCombinations(t *testing.T) {
	if _, err := FormatForFeatures(false, false, false, false, true, 0); err == nil {
		t.Error("waveform without gps_time should be rejected")
	}
	if _, err := FormatForFeatures(false, true, false, true, false, 0); err == nil {
		t.Error("nir without extended should be rejected")
	}
	if _, err := FormatForFeatures(true, true, false, true, false, 0); err == nil {
		t.Error("nir without color should be rejected")
	}
}
