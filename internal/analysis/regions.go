package analysis

import (
	"image"

	"github.com/karenhsieh75/med-it-easy/internal/detector"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

// roiPadding expands the face bounding box by 5% of each dimension.
const roiPadding = 0.05

// ExtractSkinPixels samples one pixel per skin-candidate landmark. The
// mouth and eye index ranges are excluded, and landmarks projecting
// outside the image are skipped. The returned sample may be empty.
func ExtractSkinPixels(img *imaging.Image, lm *detector.FaceLandmarks) []imaging.RGB {
	var pixels []imaging.RGB
	for i := 0; i < detector.NumLandmarks; i++ {
		if !detector.IsSkinIndex(i) {
			continue
		}
		x, y := lm.PixelAt(i, img.Width, img.Height)
		if img.In(x, y) {
			pixels = append(pixels, img.At(x, y))
		}
	}
	return pixels
}

// FaceROI crops the axis-aligned bounding box over all landmark
// projections, expanded by 5% of each dimension and clipped to the image
// bounds. Returns the unmodified image if the resulting box is degenerate.
func FaceROI(img *imaging.Image, lm *detector.FaceLandmarks) *imaging.Image {
	x1, y1 := img.Width, img.Height
	x2, y2 := 0, 0
	for i := 0; i < detector.NumLandmarks; i++ {
		x, y := lm.PixelAt(i, img.Width, img.Height)
		if x < x1 {
			x1 = x
		}
		if x > x2 {
			x2 = x
		}
		if y < y1 {
			y1 = y
		}
		if y > y2 {
			y2 = y
		}
	}

	x1, x2 = clamp(x1, 0, img.Width-1), clamp(x2, 0, img.Width-1)
	y1, y2 = clamp(y1, 0, img.Height-1), clamp(y2, 0, img.Height-1)

	padX := int(float64(x2-x1) * roiPadding)
	padY := int(float64(y2-y1) * roiPadding)
	x1 = clamp(x1-padX, 0, img.Width-1)
	x2 = clamp(x2+padX, 0, img.Width-1)
	y1 = clamp(y1-padY, 0, img.Height-1)
	y2 = clamp(y2+padY, 0, img.Height-1)

	if x2 <= x1 || y2 <= y1 {
		return img
	}
	return img.Crop(x1, y1, x2, y2)
}

// RegionPixels rasterizes the polygon formed by the given landmark
// indices and returns all covered pixels. Empty when the polygon has no
// interior after clipping.
func RegionPixels(img *imaging.Image, lm *detector.FaceLandmarks, indices []int) []imaging.RGB {
	polygon := make([]image.Point, len(indices))
	for i, idx := range indices {
		x, y := lm.PixelAt(idx, img.Width, img.Height)
		polygon[i] = image.Point{X: x, Y: y}
	}
	return imaging.PixelsInPolygon(img, polygon)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
