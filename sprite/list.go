package sprite

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"spriteanim/config"
	"spriteanim/palette"
)

// ListCmd prints the frames cut from the images after edits.
type ListCmd struct {
	Input
}

func (c *ListCmd) Validate(kctx *kong.Context) error {
	return c.Input.validate()
}

func (c *ListCmd) Run(ctx context.Context, env *Env) error {
	a, err := c.load(ctx, env, c.options(env))
	if err != nil {
		return err
	}

	tw := newTable("Frame", "Width", "Height", "Selected")
	for _, f := range a.List() {
		var mark string
		if f.Selected {
			mark = "*"
		}
		tw.AppendRow(table.Row{strconv.Itoa(f.Index), f.Size.X, f.Size.Y, mark})
	}
	st := a.State()
	tw.AppendFooter(table.Row{"Total", st.Frames, "", ""})
	fmt.Fprintln(env.Stdout, tw.Render())
	fmt.Fprintf(env.Stdout, "fps: %g\n", st.FPS)
	return nil
}

// PalettesCmd prints the built in palettes.
type PalettesCmd struct{}

func (c *PalettesCmd) Run(env *Env) error {
	tw := newTable("Palette", "Colors")
	for _, name := range palette.Names() {
		pal, err := palette.Load(name)
		if err != nil {
			return err
		}
		tw.AppendRow(table.Row{name, len(pal)})
	}
	fmt.Fprintln(env.Stdout, tw.Render())
	return nil
}

// DefaultsCmd prints a configuration file holding the defaults.
type DefaultsCmd struct{}

func (c *DefaultsCmd) Run(env *Env) error {
	_, err := fmt.Fprint(env.Stdout, config.Sample())
	return err
}

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	header := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, len(headers))
	for i, h := range headers {
		header[i] = h
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft}
	}
	configs[0].Align = text.AlignLeft
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return tw
}
