package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// FeatureVector maps feature names to scale-normalized scalar values.
// Saturation, brightness, contrast and L are fractions in [0, 1];
// redness, yellow_bias and cyan_bias are roughly in [-1, 1].
type FeatureVector map[string]float64

// Reference size the ROI is resampled to before feature computation, so
// the descriptors are independent of the input resolution.
const featureRefSize = 200

// Target constants for "balanced" skin. The rule table thresholds are
// authored against deviations from these exact values.
const (
	balancedSaturation = 0.35
	balancedContrast   = 0.22
	balancedBrightness = 0.5
)

// ComputeSkinFeatures derives the feature vector of a face ROI.
//
// The ROI is resized to 200x200, then channel statistics are taken in
// HSV (saturation, brightness), CIELAB (lightness, chrominance axes,
// contrast) and raw RGB. L is normalized by 100, a/b by 128, matching
// the scales the rule thresholds were authored on.
func ComputeSkinFeatures(roi *imaging.Image) FeatureVector {
	img := imaging.Resize(roi, featureRefSize, featureRefSize)
	n := img.Width * img.Height

	sat := make([]float64, 0, n)
	val := make([]float64, 0, n)
	lCh := make([]float64, 0, n)
	aCh := make([]float64, 0, n)
	bCh := make([]float64, 0, n)
	var rSum, gSum, bSum float64

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.At(x, y)

			_, s, v := imaging.RGBToHSV(p)
			sat = append(sat, s)
			val = append(val, v)

			lab := imaging.RGBToLab(p)
			lCh = append(lCh, lab.L/100.0)
			aCh = append(aCh, lab.A/128.0)
			bCh = append(bCh, lab.B/128.0)

			rSum += float64(p.R) / 255.0
			gSum += float64(p.G) / 255.0
			bSum += float64(p.B) / 255.0
		}
	}

	saturation := stat.Mean(sat, nil)
	brightness := stat.Mean(val, nil)
	lightness := stat.Mean(lCh, nil)
	redness := stat.Mean(aCh, nil)
	yellowBias := stat.Mean(bCh, nil)
	contrast := stat.PopStdDev(lCh, nil)
	cyanBias := -(redness + yellowBias) / 2.0
	redPatchVar := stat.PopStdDev(aCh, nil)

	deviations := []float64{
		math.Abs(redness),
		math.Abs(yellowBias),
		math.Abs(cyanBias),
		math.Abs(saturation - balancedSaturation),
		math.Abs(contrast - balancedContrast),
		math.Abs(brightness - balancedBrightness),
	}
	balanceScore := 1.0 - stat.Mean(deviations, nil)

	return FeatureVector{
		"brightness":    brightness,
		"L":             lightness,
		"redness":       redness,
		"yellow_bias":   yellowBias,
		"cyan_bias":     cyanBias,
		"saturation":    saturation,
		"contrast":      contrast,
		"r_mean":        rSum / float64(n),
		"g_mean":        gSum / float64(n),
		"b_mean":        bSum / float64(n),
		"red_patch_var": redPatchVar,
		"balance_score": balanceScore,
	}
}
