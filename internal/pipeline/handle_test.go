package pipeline

import "testing"

func TestAspectRatioLandscape(t *testing.T) {
	h := &handle{width: 4000, height: 3000}
	if got := h.aspectRatio(); got != 4.0/3.0 {
		t.Fatalf("got %v, want %v", got, 4.0/3.0)
	}
}

func TestAspectRatioPortrait(t *testing.T) {
	h := &handle{width: 3000, height: 4000}
	if got := h.aspectRatio(); got != 3.0/4.0 {
		t.Fatalf("got %v, want %v", got, 3.0/4.0)
	}
}

func TestAspectRatioZeroHeightIsSafe(t *testing.T) {
	h := &handle{width: 100, height: 0}
	if got := h.aspectRatio(); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
