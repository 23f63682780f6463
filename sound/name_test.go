package sound

import "testing"

func TestDeriveNameFromPath(t *testing.T) {
	cases := []struct {
		locator string
		want    string
	}{
		{"/samples/heavy_rain-loop 01.wav", "Heavy Rain Loop 01"},
		{"thunder.mp3", "Thunder"},
		{"pack/kick.drum.flac", "Kick Drum"},
	}
	for _, tc := range cases {
		if got := DeriveName(tc.locator); got != tc.want {
			t.Fatalf("DeriveName(%q) = %q want %q", tc.locator, got, tc.want)
		}
	}
}

func TestDeriveNameFallsBackWhenEmpty(t *testing.T) {
	if got := DeriveName(""); got != DefaultName {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := DeriveName("___.wav"); got != DefaultName {
		t.Fatalf("expected fallback for separator-only name, got %q", got)
	}
}
