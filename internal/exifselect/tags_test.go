package exifselect

import "testing"

func TestGcdInt64(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{250, 1, 1},
		{48, 18, 6},
		{0, 5, 5},
		{5, 0, 5},
		{0, 0, 1},
	}
	for _, c := range cases {
		if got := gcdInt64(c.a, c.b); got != c.want {
			t.Errorf("gcdInt64(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
