package export

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"

	"spriteanim/raster"
)

// Sheet lays the frames of src side by side in a single row and encodes
// the result. The first frame's size is the cell size; each frame is
// placed at the left edge of its cell and clipped to it.
func Sheet(src Source, format string) ([]byte, error) {
	img, err := SheetImage(src)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetImage returns the unencoded sheet built by Sheet.
func SheetImage(src Source) (*image.RGBA, error) {
	frames := src.Frames()
	if len(frames) == 0 {
		return nil, ErrNothingToExport
	}

	cell := frames[0].Bounds().Size()
	sheet := raster.New(cell.X*len(frames), cell.Y)
	for i, f := range frames {
		b := f.Bounds()
		sr := image.Rectangle{Min: b.Min, Max: b.Min.Add(cell)}.Intersect(b)
		draw.Copy(sheet, image.Point{X: i * cell.X}, f, sr, draw.Src, nil)
	}
	return sheet, nil
}
