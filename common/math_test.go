package common

import "testing"

func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(2, 10, 0.25); got != 4 {
		t.Fatalf("Lerp = %v, want 4", got)
	}
	cases := []struct {
		name string
		v    float64
		want float64
	}{
		{"below", -1, 0},
		{"inside", 0.5, 0.5},
		{"above", 3, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Clamp(c.v, 0, 1); got != c.want {
				t.Fatalf("Clamp(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}
