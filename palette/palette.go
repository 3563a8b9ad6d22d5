// Package palette provides the colour tables used when frames are
// quantised, either built in or read from RIFF PAL files.
package palette

import (
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"os"
	"slices"
	"strings"
)

// MaxColors is the largest usable palette. GIF frames hold 256 entries and
// one is kept for transparency.
const MaxColors = 255

var named = map[string]func() color.Palette{
	"bw": func() color.Palette {
		return color.Palette{color.Black, color.White}
	},
	"gray16": func() color.Palette {
		pal := make(color.Palette, 16)
		for i := range pal {
			pal[i] = color.Gray{Y: uint8(i * 0x11)}
		}
		return pal
	},
	"vga16": func() color.Palette {
		return color.Palette{
			color.RGBA{0x00, 0x00, 0x00, 0xff}, color.RGBA{0x00, 0x00, 0xaa, 0xff},
			color.RGBA{0x00, 0xaa, 0x00, 0xff}, color.RGBA{0x00, 0xaa, 0xaa, 0xff},
			color.RGBA{0xaa, 0x00, 0x00, 0xff}, color.RGBA{0xaa, 0x00, 0xaa, 0xff},
			color.RGBA{0xaa, 0x55, 0x00, 0xff}, color.RGBA{0xaa, 0xaa, 0xaa, 0xff},
			color.RGBA{0x55, 0x55, 0x55, 0xff}, color.RGBA{0x55, 0x55, 0xff, 0xff},
			color.RGBA{0x55, 0xff, 0x55, 0xff}, color.RGBA{0x55, 0xff, 0xff, 0xff},
			color.RGBA{0xff, 0x55, 0x55, 0xff}, color.RGBA{0xff, 0x55, 0xff, 0xff},
			color.RGBA{0xff, 0xff, 0x55, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff},
		}
	},
	"websafe": func() color.Palette {
		return slices.Clone(color.Palette(stdpalette.WebSafe))
	},
}

// Names returns the built in palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Load returns the named built in palette, or the concatenated palettes of
// the RIFF PAL file at name.
func Load(name string) (color.Palette, error) {
	if fn, ok := named[strings.ToLower(name)]; ok {
		return fn(), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q (built in: %s): %w", name, strings.Join(Names(), ", "), err)
	}
	defer f.Close()

	pals, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}
	var pal color.Palette
	for _, p := range pals {
		pal = append(pal, p...)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("palette file %q holds no colors", name)
	}
	if len(pal) > MaxColors {
		return nil, fmt.Errorf("palette file %q holds %d colors, at most %d are usable", name, len(pal), MaxColors)
	}
	return pal, nil
}
