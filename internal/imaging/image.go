// Package imaging provides the in-memory image representation and the pixel
// level primitives (decoding, resizing, color conversion, polygon masks) used
// by the analysis pipeline.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// RGB is a single pixel triple in RGB channel order.
type RGB struct {
	R, G, B uint8
}

// Image is an immutable height x width x 3 image with RGB channel order.
// Pix stores rows top to bottom, pixels left to right, 3 bytes per pixel.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New creates a zeroed image of the given dimensions.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// At returns the pixel at (x, y). The caller must ensure the coordinates
// are in bounds.
func (im *Image) At(x, y int) RGB {
	i := (y*im.Width + x) * 3
	return RGB{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2]}
}

// Set writes the pixel at (x, y). The caller must ensure the coordinates
// are in bounds.
func (im *Image) Set(x, y int, p RGB) {
	i := (y*im.Width + x) * 3
	im.Pix[i] = p.R
	im.Pix[i+1] = p.G
	im.Pix[i+2] = p.B
}

// In reports whether (x, y) lies inside the image bounds.
func (im *Image) In(x, y int) bool {
	return x >= 0 && x < im.Width && y >= 0 && y < im.Height
}

// Crop returns a copy of the rectangle [x0,x1] x [y0,y1] (inclusive bounds).
func (im *Image) Crop(x0, y0, x1, y1 int) *Image {
	out := New(x1-x0+1, y1-y0+1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out.Set(x-x0, y-y0, im.At(x, y))
		}
	}
	return out
}

// Decode parses an encoded image (JPEG, PNG or GIF) into an Image.
func Decode(data []byte) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(src), nil
}

// FromImage converts a standard library image into an Image.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Set(x, y, RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}
	return out
}

// ToRGBA converts the image to a standard library RGBA image.
func (im *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			p := im.At(x, y)
			i := out.PixOffset(x, y)
			out.Pix[i] = p.R
			out.Pix[i+1] = p.G
			out.Pix[i+2] = p.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// Resize scales the image to the given dimensions using bilinear
// interpolation.
func Resize(im *Image, width, height int) *Image {
	if im.Width == width && im.Height == height {
		return im
	}
	src := im.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}
