package exifselect

import "testing"

func TestMPImageTypeDetectsKnownMarkers(t *testing.T) {
	markers := []string{"HDRGainMap", "GContainer:Directory", "apple_hdr_gainmap", "hdrgm:Version"}
	for _, marker := range markers {
		raw := append([]byte("junk before..."), append([]byte(marker), []byte("...junk after")...)...)
		if got := mpImageType(raw); got != mpImageTypeGainMap {
			t.Errorf("mpImageType with marker %q = %q, want %q", marker, got, mpImageTypeGainMap)
		}
	}
}

func TestMPImageTypeNoMarkerReturnsEmpty(t *testing.T) {
	if got := mpImageType([]byte("a perfectly ordinary JPEG with no gain map")); got != "" {
		t.Errorf("mpImageType = %q, want empty string", got)
	}
}

func TestFujiFilmSimNameUnknownDegradesToEmpty(t *testing.T) {
	if got := fujiFilmSimName(0xffff, true); got != "" {
		t.Errorf("fujiFilmSimName(unknown) = %q, want empty", got)
	}
	if got := fujiFilmSimName(0x100, false); got != "" {
		t.Errorf("fujiFilmSimName(ok=false) = %q, want empty", got)
	}
}

func TestFujiFilmSimNameKnownCode(t *testing.T) {
	if got := fujiFilmSimName(0x600, true); got != "Classic Chrome" {
		t.Errorf("fujiFilmSimName(0x600) = %q, want Classic Chrome", got)
	}
}
