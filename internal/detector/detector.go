package detector

import "github.com/karenhsieh75/med-it-easy/internal/imaging"

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes an image and returns the landmark meshes of the
	// detected faces. Returns an empty slice if no faces are detected.
	Detect(img *imaging.Image) ([]FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face landmark detection.
type Config struct {
	// MaxFaces is the maximum number of faces to detect (default: 1).
	MaxFaces int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// RefineLandmarks enables the refined iris topology. It must stay
	// disabled: the under-eye and cheek region indices in the analysis
	// package are only valid for the unrefined mesh.
	RefineLandmarks bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:        1,
		MinConfidence:   0.5,
		RefineLandmarks: false,
	}
}
