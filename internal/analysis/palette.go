package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// ToneGroup is the categorical warm/cool/neutral grouping of a palette
// entry.
type ToneGroup string

const (
	GroupWarm    ToneGroup = "warm"
	GroupCool    ToneGroup = "cool"
	GroupNeutral ToneGroup = "neutral"
)

// PaletteEntry is one named reference skin tone.
type PaletteEntry struct {
	Name  string
	Color imaging.RGB
	Group ToneGroup
}

// PaletteSize is the fixed number of reference tones.
const PaletteSize = 12

// defaultPalette is the fixed reference tone set, light to deep.
var defaultPalette = []PaletteEntry{
	{"Porcelain", imaging.RGB{R: 255, G: 226, B: 220}, GroupCool},
	{"Fair Pink", imaging.RGB{R: 255, G: 214, B: 200}, GroupCool},
	{"Light Ivory", imaging.RGB{R: 245, G: 205, B: 180}, GroupNeutral},
	{"Warm Sand", imaging.RGB{R: 235, G: 190, B: 160}, GroupWarm},
	{"Beige", imaging.RGB{R: 220, G: 175, B: 150}, GroupNeutral},
	{"Soft Tan", imaging.RGB{R: 205, G: 160, B: 130}, GroupWarm},
	{"Tan", imaging.RGB{R: 190, G: 145, B: 115}, GroupWarm},
	{"Honey", imaging.RGB{R: 175, G: 130, B: 105}, GroupWarm},
	{"Caramel", imaging.RGB{R: 160, G: 115, B: 95}, GroupWarm},
	{"Chestnut", imaging.RGB{R: 145, G: 100, B: 85}, GroupWarm},
	{"Bronze", imaging.RGB{R: 130, G: 85, B: 70}, GroupWarm},
	{"Deep", imaging.RGB{R: 115, G: 70, B: 60}, GroupCool},
}

// weightEpsilon guards the inverse-distance transform against a zero
// denominator on an exact palette hit.
const weightEpsilon = 1e-6

// PaletteTable holds the reference tones with their Lab conversions,
// computed once at startup and read-only thereafter.
type PaletteTable struct {
	entries []PaletteEntry
	lab     []imaging.Lab
}

// NewPaletteTable builds the fixed 12-tone palette table.
func NewPaletteTable() *PaletteTable {
	t := &PaletteTable{
		entries: defaultPalette,
		lab:     make([]imaging.Lab, len(defaultPalette)),
	}
	for i, e := range t.entries {
		t.lab[i] = imaging.RGBToLab(e.Color)
	}
	return t
}

// Entries returns the palette entries in order.
func (t *PaletteTable) Entries() []PaletteEntry {
	return t.entries
}

// PaletteMatch is the weighted distribution of a skin sample over the
// palette. Weights are non-negative and sum to 1; BestIdx indexes the
// minimum-distance (and therefore maximum-weight) entry.
type PaletteMatch struct {
	Weights  []float64
	BestIdx  int
	GroupSum map[ToneGroup]float64
}

// Match compares the mean perceptual color of a skin sample against every
// reference tone. The weight of each entry is the normalized inverse of
// its Lab distance, a smooth similarity distribution rather than a hard
// label. The sample must be non-empty.
func (t *PaletteTable) Match(sample []imaging.RGB) PaletteMatch {
	mean := imaging.MeanLab(sample)

	weights := make([]float64, len(t.entries))
	bestIdx := 0
	bestDelta := imaging.DeltaE(t.lab[0], mean)
	for i, lab := range t.lab {
		delta := imaging.DeltaE(lab, mean)
		if delta < bestDelta {
			bestDelta = delta
			bestIdx = i
		}
		weights[i] = 1.0 / (delta + weightEpsilon)
	}

	total := floats.Sum(weights)
	floats.Scale(1.0/total, weights)

	groupSum := map[ToneGroup]float64{
		GroupWarm:    0,
		GroupCool:    0,
		GroupNeutral: 0,
	}
	for i, e := range t.entries {
		groupSum[e.Group] += weights[i]
	}

	return PaletteMatch{
		Weights:  weights,
		BestIdx:  bestIdx,
		GroupSum: groupSum,
	}
}
