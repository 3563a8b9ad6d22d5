package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"log/slog"
	"math"

	"golang.org/x/image/draw"

	"spriteanim/parallel"
)

// AnimationOptions configures Animation.
type AnimationOptions struct {
	// FPS is the playback rate.
	FPS float64
	// Palette is the colour table frames are reduced to. At most 255
	// colours are used; the last GIF index is kept for transparency.
	Palette color.Palette
	// Dither enables Floyd-Steinberg error diffusion.
	Dither bool
	// Workers is the number of frames quantised concurrently.
	Workers int
}

// Animation encodes the frames of src as a looping animated GIF. The first
// frame's size is the canvas size.
func Animation(ctx context.Context, src Source, opts AnimationOptions) ([]byte, error) {
	frames := src.Frames()
	if len(frames) == 0 {
		return nil, ErrNothingToExport
	}

	pal := make(color.Palette, 0, 256)
	if len(opts.Palette) > 255 {
		slog.Warn("palette truncated", "colors", len(opts.Palette), "used", 255)
	}
	pal = append(pal, opts.Palette[:min(len(opts.Palette), 255)]...)
	if len(pal) == 0 {
		pal = append(pal, color.Black, color.White)
	}
	pal = append(pal, color.Transparent)

	delay := 10
	if opts.FPS > 0 {
		delay = max(int(math.Round(100/opts.FPS)), 1)
	}

	canvas := image.Rectangle{Max: frames[0].Bounds().Size()}
	anim := &gif.GIF{
		Image:    make([]*image.Paletted, len(frames)),
		Delay:    make([]int, len(frames)),
		Disposal: make([]byte, len(frames)),
		Config: image.Config{
			ColorModel: pal,
			Width:      canvas.Dx(),
			Height:     canvas.Dy(),
		},
	}
	err := parallel.Each(ctx, opts.Workers, len(frames), func(i int) error {
		f := frames[i]
		dst := image.NewPaletted(canvas, pal)
		if opts.Dither {
			draw.FloydSteinberg.Draw(dst, canvas, f, f.Bounds().Min)
		} else {
			draw.Draw(dst, canvas, f, f.Bounds().Min, draw.Src)
		}
		anim.Image[i] = dst
		anim.Delay[i] = delay
		anim.Disposal[i] = gif.DisposalBackground
		return nil
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, &EncodeError{Op: "encode animation", Err: err}
	}
	return buf.Bytes(), nil
}
