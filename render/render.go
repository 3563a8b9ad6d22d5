// Package render composites frames for display.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"spriteanim/raster"
)

// GridColor is the overlay drawn along every pixel row and column when the
// grid is shown: black at roughly 5% opacity.
var GridColor = color.NRGBA{A: 0x0d}

// Config holds the display preferences applied to every frame.
type Config struct {
	Background color.Color
	ShowGrid   bool
}

// DefaultConfig returns a white background with the grid hidden.
func DefaultConfig() Config {
	return Config{Background: color.White}
}

// FrameSource provides frames by index.
type FrameSource interface {
	Frame(i int) (*image.RGBA, bool)
}

// Render draws frame index of src into dst. dst is first filled with the
// background; when index has no frame nothing else is drawn. Otherwise the
// frame is scaled with the nearest source pixel to cover dst exactly and
// the grid is overlaid if enabled.
func Render(dst draw.Image, src FrameSource, index int, cfg Config) {
	bg := cfg.Background
	if bg == nil {
		bg = color.White
	}
	raster.Fill(dst, bg)

	frame, ok := src.Frame(index)
	if !ok || frame.Bounds().Empty() {
		return
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, frame.Bounds(), draw.Over, nil)

	if cfg.ShowGrid {
		drawGrid(dst)
	}
}

// drawGrid overlays one line per output pixel column and row. Lines sit on
// pixel boundaries, so each covers exactly one column or row.
func drawGrid(dst draw.Image) {
	b := dst.Bounds()
	line := image.NewUniform(GridColor)
	for x := b.Min.X; x < b.Max.X; x++ {
		draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), line, image.Point{}, draw.Over)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), line, image.Point{}, draw.Over)
	}
}
