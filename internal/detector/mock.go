package detector

import (
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []FaceLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []FaceLandmarks) {
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured faces or error.
func (m *MockDetector) Detect(img *imaging.Image) ([]FaceLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FrontalFaceLandmarks returns a preset FaceLandmarks mesh for a centered
// frontal face. The bulk of the mesh is spread over the middle of the
// frame; the under-eye and cheek polygon indices are pinned to fixed
// quads so region extraction yields non-empty samples:
//
//	under-eye bands  at y in [0.40, 0.46]
//	cheek patches    at y in [0.55, 0.64]
func FrontalFaceLandmarks() FaceLandmarks {
	landmarks := FaceLandmarks{
		Score: 0.98,
	}

	// Spread every landmark over a face-sized region of the frame.
	for i := 0; i < NumLandmarks; i++ {
		col := i % 22
		row := i / 22
		landmarks.Points[i] = Point{
			X: 0.25 + 0.5*float64(col)/21.0,
			Y: 0.25 + 0.5*float64(row)/21.0,
		}
	}

	pin := func(indices []int, points []Point) {
		for i, idx := range indices {
			landmarks.Points[idx] = points[i]
		}
	}

	pin(LeftEyeBottom, []Point{
		{X: 0.60, Y: 0.40}, {X: 0.63, Y: 0.40}, {X: 0.66, Y: 0.40},
		{X: 0.66, Y: 0.46}, {X: 0.60, Y: 0.46},
	})
	pin(RightEyeBottom, []Point{
		{X: 0.34, Y: 0.40}, {X: 0.37, Y: 0.40}, {X: 0.40, Y: 0.40},
		{X: 0.40, Y: 0.46}, {X: 0.34, Y: 0.46},
	})
	pin(LeftCheek, []Point{
		{X: 0.56, Y: 0.55}, {X: 0.68, Y: 0.55}, {X: 0.68, Y: 0.64}, {X: 0.56, Y: 0.64},
	})
	pin(RightCheek, []Point{
		{X: 0.32, Y: 0.55}, {X: 0.44, Y: 0.55}, {X: 0.44, Y: 0.64}, {X: 0.32, Y: 0.64},
	})

	return landmarks
}

// OffFrameLandmarks returns a mesh whose every point projects outside the
// image. Skin extraction over it yields an empty sample.
func OffFrameLandmarks() FaceLandmarks {
	landmarks := FaceLandmarks{
		Score: 0.91,
	}
	for i := 0; i < NumLandmarks; i++ {
		landmarks.Points[i] = Point{X: -0.5, Y: -0.5}
	}
	return landmarks
}
