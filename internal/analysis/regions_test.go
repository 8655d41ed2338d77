package analysis

import (
	"testing"

	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// skinLandmarkCount is the number of mesh indices outside the mouth/eye
// exclusion ranges (the mouth range is nested inside the eye range).
const skinLandmarkCount = detector.NumLandmarks - (detector.EyesExcludeEnd - detector.EyesExcludeStart)

func uniformImage(w, h int, c imaging.RGB) *imaging.Image {
	im := imaging.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, c)
		}
	}
	return im
}

// twoToneImage paints the rows above split with top and the rest with
// bottom.
func twoToneImage(w, h, split int, top, bottom imaging.RGB) *imaging.Image {
	im := imaging.New(w, h)
	for y := 0; y < h; y++ {
		c := top
		if y >= split {
			c = bottom
		}
		for x := 0; x < w; x++ {
			im.Set(x, y, c)
		}
	}
	return im
}

func TestExtractSkinPixels(t *testing.T) {
	t.Run("samples one pixel per skin landmark", func(t *testing.T) {
		c := imaging.RGB{R: 210, G: 170, B: 150}
		img := uniformImage(200, 200, c)
		lm := detector.FrontalFaceLandmarks()

		pixels := ExtractSkinPixels(img, &lm)
		if len(pixels) != skinLandmarkCount {
			t.Fatalf("got %d pixels, want %d", len(pixels), skinLandmarkCount)
		}
		for _, p := range pixels {
			if p != c {
				t.Fatalf("unexpected pixel %+v", p)
			}
		}
	})

	t.Run("out of bounds landmarks yield empty sample", func(t *testing.T) {
		img := uniformImage(200, 200, imaging.RGB{})
		lm := detector.OffFrameLandmarks()

		if pixels := ExtractSkinPixels(img, &lm); len(pixels) != 0 {
			t.Errorf("got %d pixels, want 0", len(pixels))
		}
	})
}

func TestFaceROI(t *testing.T) {
	t.Run("crops the expanded bounding box", func(t *testing.T) {
		img := uniformImage(200, 200, imaging.RGB{R: 100, G: 100, B: 100})
		lm := detector.FrontalFaceLandmarks()

		roi := FaceROI(img, &lm)
		if roi == img {
			t.Fatal("expected a cropped copy, got the input image")
		}
		if roi.Width <= 0 || roi.Height <= 0 {
			t.Fatalf("degenerate ROI %dx%d", roi.Width, roi.Height)
		}
		// The fixture spans roughly half the frame; the padded box must
		// stay strictly smaller than the full image.
		if roi.Width >= img.Width || roi.Height >= img.Height {
			t.Errorf("ROI %dx%d not smaller than the input %dx%d",
				roi.Width, roi.Height, img.Width, img.Height)
		}
	})

	t.Run("degenerate box returns the input image", func(t *testing.T) {
		img := uniformImage(200, 200, imaging.RGB{})
		lm := detector.OffFrameLandmarks()

		if roi := FaceROI(img, &lm); roi != img {
			t.Error("expected the unmodified input image for a degenerate box")
		}
	})
}

func TestRegionPixels(t *testing.T) {
	img := uniformImage(200, 200, imaging.RGB{R: 220, G: 180, B: 160})
	lm := detector.FrontalFaceLandmarks()

	regions := []struct {
		name    string
		indices []int
	}{
		{"left eye bottom", detector.LeftEyeBottom},
		{"right eye bottom", detector.RightEyeBottom},
		{"left cheek", detector.LeftCheek},
		{"right cheek", detector.RightCheek},
	}

	for _, tt := range regions {
		t.Run(tt.name, func(t *testing.T) {
			pixels := RegionPixels(img, &lm, tt.indices)
			if len(pixels) == 0 {
				t.Errorf("region %s produced an empty sample", tt.name)
			}
		})
	}

	t.Run("off frame polygon is empty", func(t *testing.T) {
		lm := detector.OffFrameLandmarks()
		if pixels := RegionPixels(img, &lm, detector.LeftCheek); len(pixels) != 0 {
			t.Errorf("got %d pixels, want 0", len(pixels))
		}
	})
}
