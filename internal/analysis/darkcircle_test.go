package analysis

import (
	"testing"

	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// The fixture mesh puts the under-eye bands above y=0.5 of the frame and
// the cheek patches below, so a two-tone image split at the middle row
// gives full control over the eye/cheek contrast.
var (
	darkEyeTone    = imaging.RGB{R: 150, G: 120, B: 110}
	lightCheekTone = imaging.RGB{R: 220, G: 180, B: 160}
	nearCheekTone  = imaging.RGB{R: 212, G: 173, B: 154}
)

func TestAnalyzeDarkCircles_SevereContrast(t *testing.T) {
	img := twoToneImage(200, 200, 100, darkEyeTone, lightCheekTone)
	lm := detector.FrontalFaceLandmarks()

	dc := AnalyzeDarkCircles(img, &lm)

	if dc.Score <= DarkCircleOverrideThreshold || dc.Score > 100 {
		t.Fatalf("score = %f, want in (%f, 100]", dc.Score, DarkCircleOverrideThreshold)
	}
	if dc.Metrics.BrightnessDrop <= 10 {
		t.Errorf("brightness_drop = %f, want > 10", dc.Metrics.BrightnessDrop)
	}
	// The darker tone is cooler on both chrominance axes, which the
	// classifier reads as vascular.
	if dc.TypeLabel != "vascular" {
		t.Errorf("type = %q, want %q", dc.TypeLabel, "vascular")
	}
	if dc.AdviceKey != "vascular" {
		t.Errorf("advice key = %q, want %q", dc.AdviceKey, "vascular")
	}
}

func TestAnalyzeDarkCircles_MildContrast(t *testing.T) {
	img := twoToneImage(200, 200, 100, nearCheekTone, lightCheekTone)
	lm := detector.FrontalFaceLandmarks()

	dc := AnalyzeDarkCircles(img, &lm)

	if dc.Score >= 15 {
		t.Fatalf("score = %f, want < 15", dc.Score)
	}
	if dc.TypeLabel != "none / mild" {
		t.Errorf("type = %q, want %q", dc.TypeLabel, "none / mild")
	}
	if dc.AdviceKey != "none" {
		t.Errorf("advice key = %q, want %q", dc.AdviceKey, "none")
	}
}

func TestAnalyzeDarkCircles_UniformImage(t *testing.T) {
	img := uniformImage(200, 200, lightCheekTone)
	lm := detector.FrontalFaceLandmarks()

	dc := AnalyzeDarkCircles(img, &lm)

	if dc.Score != 0 {
		t.Errorf("score = %f, want 0 for zero contrast", dc.Score)
	}
	if dc.Metrics.BrightnessDrop > 1e-9 || dc.Metrics.BrightnessDrop < -1e-9 {
		t.Errorf("brightness_drop = %f, want 0", dc.Metrics.BrightnessDrop)
	}
}

func TestAnalyzeDarkCircles_EmptyRegions(t *testing.T) {
	img := uniformImage(200, 200, lightCheekTone)
	lm := detector.OffFrameLandmarks()

	dc := AnalyzeDarkCircles(img, &lm)

	if dc.Score != 0 {
		t.Errorf("score = %f, want 0", dc.Score)
	}
	if dc.TypeLabel != "error" {
		t.Errorf("type = %q, want %q", dc.TypeLabel, "error")
	}
}

func TestAnalyzeDarkCircles_ScoreBounds(t *testing.T) {
	// Extreme contrast must still clamp to 100.
	img := twoToneImage(200, 200, 100,
		imaging.RGB{R: 20, G: 10, B: 10},
		imaging.RGB{R: 250, G: 235, B: 225})
	lm := detector.FrontalFaceLandmarks()

	dc := AnalyzeDarkCircles(img, &lm)
	if dc.Score < 0 || dc.Score > 100 {
		t.Errorf("score = %f outside [0, 100]", dc.Score)
	}
}
