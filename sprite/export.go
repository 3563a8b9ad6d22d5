package sprite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"spriteanim/export"
	"spriteanim/palette"
)

// SheetCmd writes every frame side by side in one image.
type SheetCmd struct {
	Input
	Output
	Format string `help:"Sheet image format (png, gif, jpeg, bmp, tiff), config value when empty"`
}

func (c *SheetCmd) Validate(kctx *kong.Context) error {
	if err := c.Input.validate(); err != nil {
		return err
	}
	if c.Format != "" {
		c.Format = normalizeFormat(c.Format)
		if !slices.Contains(export.Formats, c.Format) {
			return fmt.Errorf("unsupported sheet format %q, should be one of %s", c.Format, strings.Join(export.Formats, ", "))
		}
	}
	return c.Output.validate()
}

func (c *SheetCmd) Run(ctx context.Context, env *Env) error {
	opts := c.options(env)
	if c.Format != "" {
		opts.SheetFormat = c.Format
	}
	a, err := c.load(ctx, env, opts)
	if err != nil {
		return err
	}
	data, err := a.ExportSheet()
	if errors.Is(err, export.ErrNothingToExport) {
		return nil
	} else if err != nil {
		return err
	}
	if err := c.resolve("sheet." + export.Ext(opts.SheetFormat)); err != nil {
		return err
	}
	return c.write(data)
}

// FramesCmd writes every frame as a PNG entry of one archive.
type FramesCmd struct {
	Input
	Output
	Format string `help:"Archive format, config value when empty"`
}

func (c *FramesCmd) Validate(kctx *kong.Context) error {
	if err := c.Input.validate(); err != nil {
		return err
	}
	c.Format = strings.ToLower(c.Format)
	return c.Output.validate()
}

func (c *FramesCmd) Run(ctx context.Context, env *Env) error {
	opts := c.options(env)
	if c.Format != "" {
		opts.Archive.Format = c.Format
	}
	a, err := c.load(ctx, env, opts)
	if err != nil {
		return err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	a.ExportArchive(ctx, func(data []byte, err error) {
		done <- result{data, err}
	})
	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if errors.Is(r.err, export.ErrNothingToExport) {
		return nil
	} else if r.err != nil {
		return r.err
	}

	format := opts.Archive.Format
	if format == "" {
		format = "zip"
	}
	if err := c.resolve("frames." + format); err != nil {
		return err
	}
	return c.write(r.data)
}

// GifCmd writes the frames as a looping animated GIF.
type GifCmd struct {
	Input
	Output
	FPS     float64 `name:"fps" help:"Frames per second, config value when 0" group:"animation"`
	Palette string  `help:"Built in palette name or RIFF PAL file, config value when empty" group:"animation"`
	Dither  bool    `help:"Apply Floyd-Steinberg dithering" group:"animation"`
}

func (c *GifCmd) Validate(kctx *kong.Context) error {
	if err := c.Input.validate(); err != nil {
		return err
	}
	if c.FPS < 0 {
		return fmt.Errorf("invalid frame rate: %v", c.FPS)
	}
	if c.Palette != "" {
		if _, err := palette.Load(c.Palette); err != nil {
			return err
		}
	}
	return c.Output.validate()
}

func (c *GifCmd) Run(ctx context.Context, env *Env) error {
	opts := c.options(env)
	if c.FPS > 0 {
		opts.FPS = c.FPS
	}
	palName := c.Palette
	if palName == "" {
		palName = env.Config.Export.Palette
	}
	pal, err := palette.Load(palName)
	if err != nil {
		return err
	}

	a, err := c.load(ctx, env, opts)
	if err != nil {
		return err
	}
	env.Log.Info("applying palette", "palette", palName, "colors", len(pal))
	data, err := a.ExportAnimation(ctx, pal, c.Dither || env.Config.Export.Dither)
	if errors.Is(err, export.ErrNothingToExport) {
		return nil
	} else if err != nil {
		return err
	}
	if err := c.resolve("animation.gif"); err != nil {
		return err
	}
	return c.write(data)
}

func normalizeFormat(f string) string {
	f = strings.ToLower(f)
	if f == "jpg" {
		return "jpeg"
	}
	return f
}
