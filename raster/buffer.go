// Package raster holds the pixel buffer primitives frames are made of.
//
// A buffer is an *image.RGBA anchored at the origin, so its Pix slice is
// exactly width*height*4 bytes.
package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// New returns a fully transparent w×h buffer.
func New(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// Clone returns an independent copy of img anchored at the origin.
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := New(b.Dx(), b.Dy())
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// Fill sets every pixel of buf to c.
func Fill(buf draw.Image, c color.Color) {
	draw.Draw(buf, buf.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// CopyRegion copies sr of src into dr of dst, resampling when the sizes
// differ. Without smoothing the nearest source pixel is used, with it a
// Catmull-Rom filter. sr must be a non-empty rectangle inside src; the
// destination is clipped to dst.
func CopyRegion(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle, smoothing bool) error {
	if sr.Empty() || !sr.In(src.Bounds()) {
		return &RangeError{Op: "copy region", Rect: sr, Bounds: src.Bounds()}
	}
	if dr.Empty() {
		return &RangeError{Op: "copy region", Rect: dr, Bounds: dst.Bounds()}
	}

	switch {
	case smoothing:
		draw.CatmullRom.Scale(dst, dr, src, sr, draw.Src, nil)
	case dr.Size() == sr.Size():
		draw.Copy(dst, dr.Min, src, sr, draw.Src, nil)
	default:
		draw.NearestNeighbor.Scale(dst, dr, src, sr, draw.Src, nil)
	}
	return nil
}

// Rotate90 returns a new buffer holding buf turned a quarter clockwise
// about its centre. The width and height of the result are swapped.
func Rotate90(buf image.Image) *image.RGBA {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := New(h, w)
	if b.Empty() {
		return dst
	}

	// (x, y) -> (h - y, x) relative to the source origin.
	s2d := f64.Aff3{
		0, -1, float64(h + b.Min.Y),
		1, 0, float64(-b.Min.X),
	}
	draw.NearestNeighbor.Transform(dst, s2d, buf, b, draw.Src, nil)
	return dst
}
