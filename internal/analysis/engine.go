// Package analysis implements the skin and eye-region diagnosis pipeline:
// landmark-based region extraction, color-space feature computation, rule
// evaluation, palette weighting and dark circle scoring.
package analysis

import (
	"errors"
	"fmt"
	"log"

	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// Terminal analysis errors, surfaced to callers as status "error".
var (
	// ErrNoFaceDetected is returned when the detector finds zero faces.
	ErrNoFaceDetected = errors.New("no face detected in the image")
	// ErrNoSkinPixels is returned when every skin-candidate landmark is
	// excluded or projects out of bounds.
	ErrNoSkinPixels = errors.New("face detected, but no valid skin pixels found")
)

// DarkCircleOverrideThreshold is the severity score above which the dark
// circle diagnosis replaces the matched skin rule.
const DarkCircleOverrideThreshold = 40.0

// Result statuses.
const (
	StatusComplete = "analysis_complete"
	StatusError    = "error"
)

// Result is the full outcome of one analysis request.
type Result struct {
	Status         string                `json:"status"`
	Message        string                `json:"message,omitempty"`
	Rule           *MatchedRule          `json:"result,omitempty"`
	PaletteWeights []float64             `json:"palette_weights,omitempty"`
	BestIdx        int                   `json:"best_idx"`
	GroupSum       map[ToneGroup]float64 `json:"group_sum,omitempty"`
	DarkCircle     *DarkCircleData       `json:"dark_circle_data,omitempty"`
}

// Config holds configuration options for the analysis engine.
type Config struct {
	// DarkCircle enables the dark circle stage and its override policy.
	DarkCircle bool
}

// Engine composes the analysis stages for one request at a time. The only
// shared state is the read-only palette and rule tables and the detector
// instance, which is responsible for its own synchronization.
type Engine struct {
	detector detector.Detector
	palette  *PaletteTable
	rules    *RuleTable
	config   Config
}

// NewEngine creates an Engine over the given detector and rule table.
func NewEngine(d detector.Detector, rules *RuleTable, config Config) *Engine {
	return &Engine{
		detector: d,
		palette:  NewPaletteTable(),
		rules:    rules,
		config:   config,
	}
}

// Palette returns the engine's palette table.
func (e *Engine) Palette() *PaletteTable {
	return e.palette
}

// Analyze runs the full pipeline on one image:
//
//  1. Detect face landmarks; only the first detected face is used.
//  2. Sample skin pixels and match them against the tone palette.
//  3. Crop the face ROI, compute skin features and select a rule.
//  4. Optionally score dark circles; a severe score overrides the
//     matched rule with the canonical dark circle diagnosis.
func (e *Engine) Analyze(img *imaging.Image) (*Result, error) {
	faces, err := e.detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("detect face: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}
	landmarks := &faces[0]

	skinPixels := ExtractSkinPixels(img, landmarks)
	if len(skinPixels) == 0 {
		return nil, ErrNoSkinPixels
	}

	match := e.palette.Match(skinPixels)

	roi := FaceROI(img, landmarks)
	features := ComputeSkinFeatures(roi)
	matchedRule := e.rules.SelectRule(features)

	result := &Result{
		Status:         StatusComplete,
		PaletteWeights: match.Weights,
		BestIdx:        match.BestIdx,
		GroupSum:       match.GroupSum,
	}

	if e.config.DarkCircle {
		dc := AnalyzeDarkCircles(img, landmarks)
		result.DarkCircle = &dc

		if dc.Score > DarkCircleOverrideThreshold {
			// The sub-type classification stays in dark_circle_data as
			// supplementary output; the override always uses the one
			// canonical explanation/advice pair.
			log.Printf("dark circle score %.1f overrides rule %s", dc.Score, matchedRule.RuleID)
			matchedRule = darkCircleOverrideRule()
		}
	}

	result.Rule = &matchedRule
	return result, nil
}

// ErrorResult shapes a terminal error into the result schema.
func ErrorResult(err error) *Result {
	return &Result{
		Status:  StatusError,
		Message: err.Error(),
	}
}

// darkCircleOverrideRule is the canonical diagnosis substituted when the
// dark circle score exceeds the override threshold.
func darkCircleOverrideRule() MatchedRule {
	return MatchedRule{
		RuleID:      "dark_circle_override",
		Feature:     "dark_circle_score",
		Condition:   fmt.Sprintf("> %g", DarkCircleOverrideThreshold),
		Explanation: "Dark circles detected under the eyes.",
		Advice: "This is often linked to poor circulation, allergies or lack of sleep. " +
			"Try warm compresses around the eyes, manage allergy symptoms and consider vitamin K.",
	}
}
