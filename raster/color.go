package raster

import (
	"fmt"
	"image"
	"image/color"
)

// SampleHex returns the colour of the pixel at (x, y) as "#RRGGBB". Alpha
// is ignored.
func SampleHex(img image.Image, x, y int) (string, error) {
	p := image.Point{X: x, Y: y}
	if !p.In(img.Bounds()) {
		return "", &RangeError{Op: "sample", Rect: image.Rectangle{Min: p, Max: p.Add(image.Point{X: 1, Y: 1})}, Bounds: img.Bounds()}
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), nil
}

// ParseHex reads a #RGB, #RGBA, #RRGGBB or #RRGGBBAA colour.
func ParseHex(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	var (
		n   int
		err error
	)
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return color.NRGBA{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}
