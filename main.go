// Command spriteanim cuts images into sprite frames, previews them and
// exports them as sheets, frame archives and animated GIFs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"spriteanim/config"
	"spriteanim/sprite"
)

type CLI struct {
	Config   string `help:"Configuration file, the per-user config.toml when empty" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error), config value when empty"`
	LogJSON  bool   `name:"log-json" help:"Log JSON even on a terminal"`

	Sheet    sprite.SheetCmd    `cmd:"" help:"Write all frames side by side in one image"`
	Frames   sprite.FramesCmd   `cmd:"" help:"Write every frame as a PNG in one archive"`
	Gif      sprite.GifCmd      `cmd:"" help:"Write the frames as a looping animated GIF"`
	Preview  sprite.PreviewCmd  `cmd:"" help:"Render one frame at view size"`
	List     sprite.ListCmd     `cmd:"" help:"List the frames cut from images"`
	Palettes sprite.PalettesCmd `cmd:"" help:"List the built in palettes"`
	Defaults sprite.DefaultsCmd `cmd:"" help:"Print the default configuration"`
}

func main() {
	os.Exit(Main())
}

// Main runs the command line and returns the process exit code.
func Main() int {
	var cli CLI
	exit := -1
	parser, err := kong.New(&cli,
		kong.Name("spriteanim"),
		kong.Description("Sprite frame store and raster transform engine."),
		kong.UsageOnError(),
		kong.Exit(func(code int) { exit = code }),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	kctx, err := parser.Parse(os.Args[1:])
	if exit >= 0 {
		// Help or version was printed.
		return exit
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, path, exists, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	level := cfg.LogLevel()
	if cli.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", cli.LogLevel, err)
			return 2
		}
	}
	log := slog.New(newHandler(os.Stderr, level, cli.LogJSON))
	slog.SetDefault(log)
	log.Debug("configuration", "path", path, "exists", exists)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := &sprite.Env{Config: cfg, Log: log, Stdout: os.Stdout}
	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(env); err != nil {
		log.Error("failed", "command", kctx.Command(), "error", err)
		return 1
	}
	return 0
}

func newHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && !json {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return slog.NewTextHandler(w, opts)
		}
	}
	return slog.NewJSONHandler(w, opts)
}
