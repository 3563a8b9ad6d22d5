// Package sprite holds the spriteanim command line commands.
package sprite

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"spriteanim/animator"
	"spriteanim/config"
	"spriteanim/export"
	"spriteanim/source"
)

// Env is the state shared by every command.
type Env struct {
	Config *config.Config
	Log    *slog.Logger
	Stdout io.Writer
}

// Input selects the source images and the edits applied to the frames cut
// from them.
type Input struct {
	Images     []string `arg:"" name:"image" help:"Source images, in frame order"`
	Single     bool     `help:"Scale each image into one frame instead of cutting it into cells"`
	CellWidth  int      `help:"Cell width in pixels, config value when 0" group:"frames"`
	CellHeight int      `help:"Cell height in pixels, config value when 0" group:"frames"`
	Rotate     []int    `help:"Turn the frame at this index a quarter clockwise, repeatable" group:"edit"`
	Remove     []int    `help:"Remove the frame at this index, applied after rotations" group:"edit"`
}

func (in *Input) validate() error {
	switch {
	case in.CellWidth < 0:
		return fmt.Errorf("invalid cell width: %d", in.CellWidth)
	case in.CellHeight < 0:
		return fmt.Errorf("invalid cell height: %d", in.CellHeight)
	}
	for i, p := range in.Images {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid image path %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err == nil && !info.Mode().IsRegular() {
			err = fmt.Errorf("not a regular file")
		}
		if err != nil {
			return fmt.Errorf("invalid image path %q: %w", p, err)
		}
		in.Images[i] = abs
	}
	return nil
}

// options returns the session options for env's configuration with the
// command line overrides applied.
func (in *Input) options(env *Env) animator.Options {
	cfg := env.Config
	cell := image.Point{X: cfg.Frames.CellWidth, Y: cfg.Frames.CellHeight}
	if in.CellWidth > 0 {
		cell.X = in.CellWidth
	}
	if in.CellHeight > 0 {
		cell.Y = in.CellHeight
	}
	return animator.Options{
		Cell:        cell,
		View:        image.Point{X: cfg.View.Width, Y: cfg.View.Height},
		Render:      cfg.Render(),
		FPS:         cfg.Playback.FPS,
		SheetFormat: cfg.Export.SheetFormat,
		Archive: export.ArchiveOptions{
			Format:  cfg.Export.ArchiveFormat,
			Workers: cfg.Export.Workers,
		},
		Logger: env.Log,
	}
}

// load decodes the images into a new session and applies the edits.
func (in *Input) load(ctx context.Context, env *Env, opts animator.Options) (*animator.Animator, error) {
	dec, err := source.NewDecoder(env.Config.Input.Formats...)
	if err != nil {
		return nil, err
	}
	imgs, err := dec.DecodeFiles(ctx, env.Config.Export.Workers, in.Images)
	if err != nil {
		return nil, err
	}
	if len(imgs) == 0 {
		return nil, fmt.Errorf("no usable images, accepted formats: %v", env.Config.Input.Formats)
	}

	a := animator.New(opts)
	n := a.AddImages(imgs, env.Config.Frames.Sheet && !in.Single)
	env.Log.Info("frames loaded", "images", len(imgs), "frames", n, "cell", opts.Cell)
	if n == 0 {
		return nil, fmt.Errorf("images are smaller than one %dx%d cell", opts.Cell.X, opts.Cell.Y)
	}

	for _, i := range in.Rotate {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("cannot rotate frame %d of %d", i, n)
		}
		a.Select(i)
		a.RotateSelected()
	}

	// Highest first so every index names a frame as originally loaded.
	remove := slices.Clone(in.Remove)
	slices.Sort(remove)
	remove = slices.Compact(remove)
	for _, i := range slices.Backward(remove) {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("cannot remove frame %d of %d", i, n)
		}
		a.Select(i)
		a.RemoveSelected()
	}
	a.Select(0)
	return a, nil
}
