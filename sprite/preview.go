package sprite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/alecthomas/kong"

	"spriteanim/export"
	"spriteanim/raster"
)

// PreviewCmd renders one frame at view size, as the editor shows it.
type PreviewCmd struct {
	Input
	Output
	Frame      int           `help:"Frame to show" default:"0" group:"view"`
	Width      int           `help:"View width, config value when 0" group:"view"`
	Height     int           `help:"View height, config value when 0" group:"view"`
	Background string        `help:"View background as #RGB, #RGBA, #RRGGBB or #RRGGBBAA, config value when empty" group:"view"`
	Grid       bool          `help:"Overlay the pixel grid" group:"view"`
	Play       time.Duration `help:"Play the animation for this long before capturing the view" group:"view"`
	Sample     string        `help:"Print the colour of the view at x,y" placeholder:"X,Y" group:"view"`

	sample *image.Point
}

func (c *PreviewCmd) Validate(kctx *kong.Context) error {
	if err := c.Input.validate(); err != nil {
		return err
	}
	switch {
	case c.Frame < 0:
		return fmt.Errorf("invalid frame: %d", c.Frame)
	case c.Width < 0:
		return fmt.Errorf("invalid view width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid view height: %d", c.Height)
	case c.Play < 0:
		return fmt.Errorf("invalid play duration: %v", c.Play)
	}
	if c.Background != "" {
		if _, err := raster.ParseHex(c.Background); err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
	}
	if c.Sample != "" {
		p, err := parsePoint(c.Sample)
		if err != nil {
			return err
		}
		c.sample = &p
	}
	return c.Output.validate()
}

func (c *PreviewCmd) Run(ctx context.Context, env *Env) error {
	opts := c.options(env)
	if c.Width > 0 {
		opts.View.X = c.Width
	}
	if c.Height > 0 {
		opts.View.Y = c.Height
	}
	if c.Background != "" {
		bg, _ := raster.ParseHex(c.Background)
		opts.Render.Background = bg
	}
	opts.Render.ShowGrid = opts.Render.ShowGrid || c.Grid

	a, err := c.load(ctx, env, opts)
	if err != nil {
		return err
	}
	if st := a.State(); c.Frame >= st.Frames {
		return fmt.Errorf("cannot show frame %d of %d", c.Frame, st.Frames)
	}
	a.Select(c.Frame)

	if c.Play > 0 {
		a.Play()
		select {
		case <-time.After(c.Play):
		case <-ctx.Done():
		}
		a.Pause()
		st := a.State()
		env.Log.Info("played", "fps", st.FPS, "shown", st.Shown)
	}

	if c.sample != nil {
		hex, err := a.SampleHex(c.sample.X, c.sample.Y)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, hex)
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, a.View(), "png"); err != nil {
		return err
	}
	if err := c.resolve("preview.png"); err != nil {
		return err
	}
	return c.write(buf.Bytes())
}

func parsePoint(s string) (image.Point, error) {
	var p image.Point
	n, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y)
	if err != nil {
		return image.Point{}, fmt.Errorf("could not read point %q: %w", s, err)
	} else if n < 2 {
		return image.Point{}, fmt.Errorf("insufficient point fields: %d", n)
	}
	return p, nil
}
