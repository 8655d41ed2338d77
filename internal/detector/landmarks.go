// Package detector provides face landmark detection interfaces and types
// for the skin analysis pipeline.
package detector

// Face mesh landmark topology following the MediaPipe FaceMesh convention
// (468 points, refine_landmarks disabled).
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
//
// All index constants below are tied to this topology version. They become
// invalid if the landmark model or its refinement mode changes.
const (
	NumLandmarks = 468

	// TopologyVersion names the landmark topology the index constants
	// below were authored against.
	TopologyVersion = "mediapipe-facemesh-468"
)

// Landmark index ranges excluded from skin sampling. Ranges are
// half-open: [start, end).
const (
	MouthExcludeStart = 61
	MouthExcludeEnd   = 89
	EyesExcludeStart  = 33
	EyesExcludeEnd    = 133
)

// Polygon index sets for the dark circle regions.
var (
	// LeftEyeBottom outlines the left under-eye band.
	LeftEyeBottom = []int{452, 451, 450, 449, 448}
	// RightEyeBottom outlines the right under-eye band.
	RightEyeBottom = []int{232, 231, 230, 229, 228}
	// LeftCheek outlines the left cheek reference patch.
	LeftCheek = []int{187, 147, 123, 205}
	// RightCheek outlines the right cheek reference patch.
	RightCheek = []int{411, 376, 352, 425}
)

// Point represents a normalized 2D landmark position. Coordinates are
// fractions of the image dimensions and may fall outside [0, 1] for
// landmarks projected beyond the frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceLandmarks represents the 468 face mesh landmarks of one detected face.
type FaceLandmarks struct {
	Points [NumLandmarks]Point `json:"points"`
	Score  float64             `json:"score"`
}

// PixelAt projects the landmark at index i into pixel coordinates for an
// image of the given dimensions. The result may be out of bounds.
func (f *FaceLandmarks) PixelAt(i, width, height int) (x, y int) {
	return int(f.Points[i].X * float64(width)), int(f.Points[i].Y * float64(height))
}

// IsSkinIndex reports whether the landmark at index i may be sampled as
// skin, i.e. it lies outside the mouth and eye exclusion ranges.
func IsSkinIndex(i int) bool {
	if i >= MouthExcludeStart && i < MouthExcludeEnd {
		return false
	}
	if i >= EyesExcludeStart && i < EyesExcludeEnd {
		return false
	}
	return true
}
