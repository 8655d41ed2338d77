package imaging

import (
	"math"
	"testing"
)

func TestRGBToLab_ReferenceColors(t *testing.T) {
	tests := []struct {
		name    string
		in      RGB
		wantL   float64
		wantA   float64
		wantB   float64
		epsilon float64
	}{
		{"white", RGB{255, 255, 255}, 100.0, 0.0, 0.0, 0.5},
		{"black", RGB{0, 0, 0}, 0.0, 0.0, 0.0, 0.5},
		{"mid gray", RGB{128, 128, 128}, 53.6, 0.0, 0.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.in)
			if math.Abs(got.L-tt.wantL) > tt.epsilon {
				t.Errorf("L = %f, want %f", got.L, tt.wantL)
			}
			if math.Abs(got.A-tt.wantA) > tt.epsilon {
				t.Errorf("A = %f, want %f", got.A, tt.wantA)
			}
			if math.Abs(got.B-tt.wantB) > tt.epsilon {
				t.Errorf("B = %f, want %f", got.B, tt.wantB)
			}
		})
	}
}

func TestRGBToLab_ChromaSigns(t *testing.T) {
	red := RGBToLab(RGB{R: 255, G: 0, B: 0})
	if red.A <= 0 {
		t.Errorf("pure red should have positive a*, got %f", red.A)
	}

	blue := RGBToLab(RGB{R: 0, G: 0, B: 255})
	if blue.B >= 0 {
		t.Errorf("pure blue should have negative b*, got %f", blue.B)
	}

	yellow := RGBToLab(RGB{R: 255, G: 255, B: 0})
	if yellow.B <= 0 {
		t.Errorf("pure yellow should have positive b*, got %f", yellow.B)
	}
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name  string
		in    RGB
		wantS float64
		wantV float64
	}{
		{"black", RGB{0, 0, 0}, 0.0, 0.0},
		{"white", RGB{255, 255, 255}, 0.0, 1.0},
		{"pure red", RGB{255, 0, 0}, 1.0, 1.0},
		{"half gray", RGB{128, 128, 128}, 0.0, 128.0 / 255.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s, v := RGBToHSV(tt.in)
			if math.Abs(s-tt.wantS) > 1e-9 {
				t.Errorf("s = %f, want %f", s, tt.wantS)
			}
			if math.Abs(v-tt.wantV) > 1e-9 {
				t.Errorf("v = %f, want %f", v, tt.wantV)
			}
		})
	}
}

func TestMeanLab(t *testing.T) {
	t.Run("empty sample returns zero value", func(t *testing.T) {
		got := MeanLab(nil)
		if got.L != 0 || got.A != 0 || got.B != 0 {
			t.Errorf("MeanLab(nil) = %+v, want zero value", got)
		}
	})

	t.Run("uniform sample equals single conversion", func(t *testing.T) {
		c := RGB{R: 220, G: 180, B: 160}
		sample := []RGB{c, c, c, c}
		mean := MeanLab(sample)
		single := RGBToLab(c)
		if math.Abs(mean.L-single.L) > 1e-9 ||
			math.Abs(mean.A-single.A) > 1e-9 ||
			math.Abs(mean.B-single.B) > 1e-9 {
			t.Errorf("MeanLab uniform = %+v, want %+v", mean, single)
		}
	})
}

func TestDeltaE(t *testing.T) {
	a := Lab{L: 50, A: 10, B: -10}
	if d := DeltaE(a, a); d != 0 {
		t.Errorf("DeltaE of identical colors = %f, want 0", d)
	}

	b := Lab{L: 53, A: 14, B: -10}
	if d := DeltaE(a, b); math.Abs(d-5.0) > 1e-9 {
		t.Errorf("DeltaE = %f, want 5.0", d)
	}
}
