package imaging

import "math"

// Lab is a color in CIELAB (D65 reference white). L is in [0, 100] and
// a/b are roughly in [-128, 128]. Euclidean distance in this space
// approximates perceived color difference.
type Lab struct {
	L float64
	A float64
	B float64
}

// D65 reference white.
const (
	refX = 0.95047
	refY = 1.00000
	refZ = 1.08883
)

// RGBToLab converts an sRGB pixel to CIELAB.
func RGBToLab(p RGB) Lab {
	r := srgbToLinear(float64(p.R) / 255.0)
	g := srgbToLinear(float64(p.G) / 255.0)
	b := srgbToLinear(float64(p.B) / 255.0)

	x := 0.4124564*r + 0.3575761*g + 0.1804375*b
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := 0.0193339*r + 0.1191920*g + 0.9503041*b

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// MeanLab converts every pixel in the sample to CIELAB and returns the
// per-channel mean. Returns the zero value for an empty sample.
func MeanLab(sample []RGB) Lab {
	if len(sample) == 0 {
		return Lab{}
	}
	var sum Lab
	for _, p := range sample {
		lab := RGBToLab(p)
		sum.L += lab.L
		sum.A += lab.A
		sum.B += lab.B
	}
	n := float64(len(sample))
	return Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}
}

// DeltaE returns the Euclidean distance between two Lab colors.
func DeltaE(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// RGBToHSV converts an sRGB pixel to HSV. Hue is in degrees [0, 360),
// saturation and value are in [0, 1].
func RGBToHSV(p RGB) (h, s, v float64) {
	r := float64(p.R) / 255.0
	g := float64(p.G) / 255.0
	b := float64(p.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max

	if max > 0 {
		s = (max - min) / max
	}

	if max == min {
		return 0, s, v
	}

	d := max - min
	switch max {
	case r:
		h = 60 * math.Mod((g-b)/d, 6)
	case g:
		h = 60 * ((b-r)/d + 2)
	default:
		h = 60 * ((r-g)/d + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}
