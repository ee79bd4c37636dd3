package las

import "testing"

func TestVersionSupported(t *testing.T) {
	cases := []struct {
		v    Version
		want bool
	}{
		{Version{1, 0}, true},
		{Version{1, 4}, true},
		{Version{1, 5}, false},
		{Version{2, 0}, false},
	}
	for _, c := range cases {
		if got := c.v.Supported(); got != c.want {
			t.Errorf("Version{%d,%d}.Supported() = %v, want %v", c.v.Major, c.v.Minor, got, c.want)
		}
	}
}

func TestVersionFeatureGates(t *testing.T) {
	v10 := Version{1, 0}
	v12 := Version{1, 2}
	v13 := Version{1, 3}
	v14 := Version{1, 4}

	if v10.HasFileSourceId() {
		t.Error("1.0 should not have file_source_id")
	}
	if !v12.HasFileSourceId() {
		t.Error("1.2 should have file_source_id")
	}
	if v10.HasColorPointFormats() {
		t.Error("1.0 should not allow color point formats")
	}
	if !v12.HasColorPointFormats() {
		t.Error("1.2 should allow color point formats")
	}
	if v12.HasWaveforms() {
		t.Error("1.2 should not allow waveforms")
	}
	if !v13.HasWaveforms() {
		t.Error("1.3 should allow waveforms")
	}
	if v13.HasEvlrs() || v13.HasLargeFiles() {
		t.Error("1.3 should not have EVLRs or 64-bit counts")
	}
	if !v14.HasEvlrs() || !v14.HasLargeFiles() {
		t.Error("1.4 should have EVLRs and 64-bit counts")
	}
}

func TestVersionHeaderSize(t *testing.T) {
	cases := []struct {
		v    Version
		want uint16
	}{
		{Version{1, 2}, 227},
		{Version{1, 3}, 235},
		{Version{1, 4}, 375},
	}
	for _, c := range cases {
		if got := c.v.HeaderSize(); got != c.want {
			t.Errorf("Version{1,%d}.HeaderSize() = %d, want %d", c.v.Minor, got, c.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	if got := (Version{1, 4}).String(); got != "1.4" {
		t.Errorf("String() = %q, want %q", got, "1.4")
	}
}
