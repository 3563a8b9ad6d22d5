// Package animator ties the frame store, compositor, playback scheduler
// and exporters into the session object a user interface drives.
//
// All methods are safe for concurrent use. Each runs to completion under
// one lock that playback ticks also take, so no operation ever observes
// another one half done.
package animator

import (
	"image"
	"image/color"
	"log/slog"
	"sync"

	"spriteanim/export"
	"spriteanim/playback"
	"spriteanim/raster"
	"spriteanim/render"
	"spriteanim/sheet"
	"spriteanim/store"
)

// Options configures an Animator. Zero fields take defaults.
type Options struct {
	// Cell is the frame size sources are cut or scaled to.
	Cell image.Point
	// View is the size of the composited view.
	View image.Point
	// Render holds the initial display preferences.
	Render render.Config
	// FPS is the initial playback rate.
	FPS float64
	// Timer drives playback, a real ticker when nil.
	Timer playback.Timer
	// SheetFormat is the image format of exported sheets.
	SheetFormat string
	// Archive configures per-frame exports.
	Archive export.ArchiveOptions
	// Logger receives operational logs, slog.Default() when nil.
	Logger *slog.Logger
}

// Animator is an editing and playback session over one frame store.
type Animator struct {
	mu sync.Mutex

	frames *store.Store
	sched  *playback.Scheduler
	cfg    render.Config
	view   *image.RGBA
	shown  int

	cell        image.Point
	sheetFormat string
	archive     export.ArchiveOptions

	onRender []func(index int)
	log      *slog.Logger
}

// New returns an empty, stopped session.
func New(opts Options) *Animator {
	if opts.Cell.X <= 0 || opts.Cell.Y <= 0 {
		opts.Cell = image.Point{X: sheet.DefaultCell, Y: sheet.DefaultCell}
	}
	if opts.View.X <= 0 || opts.View.Y <= 0 {
		opts.View = image.Point{X: 256, Y: 256}
	}
	if opts.Render.Background == nil {
		opts.Render.Background = render.DefaultConfig().Background
	}
	if opts.SheetFormat == "" {
		opts.SheetFormat = "png"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &Animator{
		frames:      store.New(),
		cfg:         opts.Render,
		view:        raster.New(opts.View.X, opts.View.Y),
		shown:       -1,
		cell:        opts.Cell,
		sheetFormat: opts.SheetFormat,
		archive:     opts.Archive,
		log:         opts.Logger,
	}
	a.sched = playback.New(&a.mu, a.frames, opts.Timer, a.tick)
	if opts.FPS != 0 {
		a.sched.SetFrameRate(opts.FPS)
	}
	return a
}

// OnFramesChanged registers fn to be called with the new frame count
// whenever frames are added or removed. fn is called with the session
// lock held and must not call back into the Animator.
func (a *Animator) OnFramesChanged(fn func(count int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames.OnChange(fn)
}

// OnRender registers fn to be called with the displayed index, -1 for
// none, each time the view is redrawn. fn is called with the session lock
// held and must not call back into the Animator.
func (a *Animator) OnRender(fn func(index int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onRender = append(a.onRender, fn)
}

// AddImages cuts each source into frames, as a sheet of cells when
// asSheet is true or scaled whole into one cell otherwise, and appends
// them. It returns the number of frames added. When the session was empty
// the first new frame is selected and shown.
func (a *Animator) AddImages(srcs []image.Image, asSheet bool) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	var added int
	for _, src := range srcs {
		var frames []*image.RGBA
		if asSheet {
			frames = sheet.Grid(src, a.cell.X, a.cell.Y)
		} else {
			frames = []*image.RGBA{sheet.Single(src, a.cell.X, a.cell.Y)}
		}
		a.log.Debug("adding frames", "bounds", src.Bounds(), "sheet", asSheet, "frames", len(frames))
		if len(frames) == 0 {
			continue
		}
		wasEmpty := a.frames.Len() == 0
		imgs := make([]image.Image, len(frames))
		for i, f := range frames {
			imgs[i] = f
		}
		a.frames.Append(imgs...)
		added += len(frames)
		if wasEmpty {
			a.draw(0)
		}
	}
	return added
}

// Select selects and shows frame i. Out of range indexes are ignored.
func (a *Animator) Select(i int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectFrame(i)
}

func (a *Animator) selectFrame(i int) {
	if i < 0 || i >= a.frames.Len() {
		return
	}
	a.frames.Select(i)
	a.draw(i)
}

// RemoveSelected deletes the selected frame and shows the new selection.
// Removing the last frame clears the view.
func (a *Animator) RemoveSelected() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.frames.Selected() == -1 {
		return
	}
	a.frames.RemoveSelected()
	if a.frames.Len() == 0 {
		raster.Fill(a.view, color.Transparent)
		a.shown = -1
		a.notifyRender()
		return
	}
	a.draw(a.frames.Selected())
}

// RotateSelected turns the selected frame a quarter clockwise in place.
func (a *Animator) RotateSelected() {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.frames.Selected()
	f, ok := a.frames.Frame(i)
	if !ok {
		return
	}
	a.frames.ReplaceAt(i, raster.Rotate90(f))
	a.draw(i)
}

func (a *Animator) SetBackground(c color.Color) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Background = c
	a.draw(a.frames.Selected())
}

func (a *Animator) SetGrid(show bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.ShowGrid = show
	a.draw(a.frames.Selected())
}

// ToggleGrid flips the pixel grid and returns whether it is now shown.
func (a *Animator) ToggleGrid() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.ShowGrid = !a.cfg.ShowGrid
	a.draw(a.frames.Selected())
	return a.cfg.ShowGrid
}

func (a *Animator) RenderConfig() render.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// draw composites frame i into the view. It must be called with mu held.
func (a *Animator) draw(i int) {
	render.Render(a.view, a.frames, i, a.cfg)
	a.shown = i
	if i < 0 || i >= a.frames.Len() {
		a.shown = -1
	}
	a.notifyRender()
}

func (a *Animator) notifyRender() {
	for _, fn := range a.onRender {
		fn(a.shown)
	}
}

func (a *Animator) tick(i int) {
	a.draw(i)
	a.frames.Select(i)
}
