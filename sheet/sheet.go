// Package sheet cuts source images into frames.
package sheet

import (
	"image"

	"spriteanim/raster"
)

// DefaultCell is the width and height of a frame cell.
const DefaultCell = 32

// Grid slices src into cellW×cellH frames, row by row from the top left.
// Pixels to the right of the last full column and below the last full row
// are dropped. An image smaller than one cell gives no frames.
func Grid(src image.Image, cellW, cellH int) []*image.RGBA {
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	b := src.Bounds()
	cols := b.Dx() / cellW
	rows := b.Dy() / cellH
	if cols == 0 || rows == 0 {
		return nil
	}

	frames := make([]*image.RGBA, 0, cols*rows)
	for y := range rows {
		for x := range cols {
			frame := raster.New(cellW, cellH)
			sr := image.Rect(x*cellW, y*cellH, (x+1)*cellW, (y+1)*cellH).Add(b.Min)
			// sr is inside b by construction.
			_ = raster.CopyRegion(frame, frame.Bounds(), src, sr, false)
			frames = append(frames, frame)
		}
	}
	return frames
}

// Single resamples the whole of src into one cellW×cellH frame using the
// nearest source pixel. An empty source gives a transparent frame.
func Single(src image.Image, cellW, cellH int) *image.RGBA {
	frame := raster.New(cellW, cellH)
	if src.Bounds().Empty() || frame.Bounds().Empty() {
		return frame
	}
	_ = raster.CopyRegion(frame, frame.Bounds(), src, src.Bounds(), false)
	return frame
}
