package pipeline

import "testing"

func TestToneTagClassification(t *testing.T) {
	cases := []struct {
		name              string
		mean, dark, bright float64
		want              string
	}{
		{"mostly dark pixels", 0.3, 0.7, 0.0, "dark"},
		{"mostly bright pixels", 0.8, 0.0, 0.7, "bright"},
		{"low mean with no dominant bucket", 0.2, 0.1, 0.1, "low-key"},
		{"high mean with no dominant bucket", 0.8, 0.1, 0.1, "high-key"},
		{"mid-range", 0.5, 0.1, 0.1, "balanced"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := toneTag(c.mean, c.dark, c.bright); got != c.want {
				t.Errorf("toneTag(%v, %v, %v) = %q, want %q", c.mean, c.dark, c.bright, got, c.want)
			}
		})
	}
}

func TestRound3(t *testing.T) {
	if got := round3(0.123456); got != 0.123 {
		t.Errorf("round3(0.123456) = %v, want 0.123", got)
	}
	if got := round3(0.999999); got != 1.0 {
		t.Errorf("round3(0.999999) = %v, want 1.0", got)
	}
}
