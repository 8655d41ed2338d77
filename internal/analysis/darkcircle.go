package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// Dark circle scoring constants. The severity score blends the mean
// brightness contrast between cheek and under-eye (70%) with the
// fraction of locally dark under-eye pixels (30%).
const (
	brightnessDropWeight = 70.0
	darkRatioWeight      = 30.0

	brightnessDropLow  = 2.0
	brightnessDropHigh = 20.0
	darkRatioLow       = 0.1
	darkRatioHigh      = 0.7

	// darkPixelOffset is subtracted from the cheek lightness to form the
	// per-pixel darkness threshold.
	darkPixelOffset = 8.0

	// classifyMinScore gates the sub-type classification; below it the
	// result is reported as none/mild.
	classifyMinScore = 15.0
)

// DarkCircleMetrics are the raw contrast measurements between the
// under-eye and cheek regions in Lab space.
type DarkCircleMetrics struct {
	BrightnessDrop float64 `json:"brightness_drop"`
	Da             float64 `json:"da"`
	Db             float64 `json:"db"`
}

// DarkCircleData is the full dark circle analysis output.
type DarkCircleData struct {
	Score     float64           `json:"score"`
	TypeLabel string            `json:"type_label"`
	AdviceKey string            `json:"advice_key"`
	Metrics   DarkCircleMetrics `json:"metrics"`
}

// DegradedDarkCircleData is returned when either combined region sample
// is empty. It is non-fatal; the pipeline continues with the rule-engine
// result only.
func DegradedDarkCircleData() DarkCircleData {
	return DarkCircleData{Score: 0, TypeLabel: "error", AdviceKey: "none"}
}

// AnalyzeDarkCircles computes the dark circle severity score and type
// from the contrast between the combined under-eye bands and the
// combined cheek patches.
func AnalyzeDarkCircles(img *imaging.Image, lm *detector.FaceLandmarks) DarkCircleData {
	eyePixels := append(
		RegionPixels(img, lm, detector.LeftEyeBottom),
		RegionPixels(img, lm, detector.RightEyeBottom)...)
	if len(eyePixels) == 0 {
		return DegradedDarkCircleData()
	}

	leftCheek := RegionPixels(img, lm, detector.LeftCheek)
	rightCheek := RegionPixels(img, lm, detector.RightCheek)
	cheekPixels := append(leftCheek, rightCheek...)
	if len(cheekPixels) == 0 {
		return DegradedDarkCircleData()
	}

	meanEye := imaging.MeanLab(eyePixels)
	meanCheek := imaging.MeanLab(cheekPixels)

	metrics := DarkCircleMetrics{
		BrightnessDrop: meanCheek.L - meanEye.L,
		Da:             meanEye.A - meanCheek.A,
		Db:             meanEye.B - meanCheek.B,
	}

	// Fraction of under-eye pixels noticeably darker than the cheek mean.
	darkThreshold := meanCheek.L - darkPixelOffset
	darkFlags := make([]float64, len(eyePixels))
	for i, p := range eyePixels {
		if imaging.RGBToLab(p).L < darkThreshold {
			darkFlags[i] = 1
		}
	}
	darkRatio := stat.Mean(darkFlags, nil)

	rawScore := brightnessDropWeight*normalizeScore(metrics.BrightnessDrop, brightnessDropLow, brightnessDropHigh) +
		darkRatioWeight*normalizeScore(darkRatio, darkRatioLow, darkRatioHigh)
	score := math.Min(math.Max(rawScore, 0.0), 100.0)

	typeLabel, adviceKey := classifyDarkCircle(score, metrics)

	return DarkCircleData{
		Score:     score,
		TypeLabel: typeLabel,
		AdviceKey: adviceKey,
		Metrics:   metrics,
	}
}

// classifyDarkCircle labels the dark circle sub-type once the score
// reaches the classification gate.
func classifyDarkCircle(score float64, m DarkCircleMetrics) (typeLabel, adviceKey string) {
	if score < classifyMinScore {
		return "none / mild", "none"
	}
	switch {
	case m.Db < -1.5 && m.Da < 0:
		return "vascular", "vascular"
	case m.Db > 2.0:
		return "pigmented", "pigmented"
	case m.BrightnessDrop > 10 && math.Abs(m.Db) < 2.0:
		return "structural / shadow", "shadow"
	default:
		return "mixed / unclear", "mixed"
	}
}

// normalizeScore maps x linearly from [low, high] onto [0, 1], clamped.
func normalizeScore(x, low, high float64) float64 {
	v := (x - low) / (high - low + 1e-6)
	return math.Min(math.Max(v, 0.0), 1.0)
}
