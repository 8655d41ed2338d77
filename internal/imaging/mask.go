package imaging

import (
	"image"
	"sort"
)

// PolygonMask rasterizes a closed polygon into a width x height boolean
// mask using even-odd scanline filling. Pixels are sampled at their
// centers. Returns an all-false mask when the polygon has no interior
// inside the image bounds.
func PolygonMask(width, height int, polygon []image.Point) []bool {
	mask := make([]bool, width*height)
	if len(polygon) < 3 {
		return mask
	}

	for y := 0; y < height; y++ {
		fy := float64(y) + 0.5

		var crossings []float64
		for i := range polygon {
			p1 := polygon[i]
			p2 := polygon[(i+1)%len(polygon)]
			y1, y2 := float64(p1.Y), float64(p2.Y)
			if (y1 > fy) == (y2 > fy) {
				continue
			}
			x1, x2 := float64(p1.X), float64(p2.X)
			crossings = append(crossings, x1+(fy-y1)/(y2-y1)*(x2-x1))
		}
		if len(crossings) < 2 {
			continue
		}
		sort.Float64s(crossings)

		for k := 0; k+1 < len(crossings); k += 2 {
			for x := 0; x < width; x++ {
				fx := float64(x) + 0.5
				if fx >= crossings[k] && fx < crossings[k+1] {
					mask[y*width+x] = true
				}
			}
		}
	}
	return mask
}

// PixelsInPolygon returns every pixel of the image covered by the polygon
// mask. The result may be empty.
func PixelsInPolygon(im *Image, polygon []image.Point) []RGB {
	mask := PolygonMask(im.Width, im.Height, polygon)
	var pixels []RGB
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			if mask[y*im.Width+x] {
				pixels = append(pixels, im.At(x, y))
			}
		}
	}
	return pixels
}
