package animator

import (
	"context"
	"errors"
	"image"
	"image/color"

	"github.com/dustin/go-humanize"

	"spriteanim/export"
	"spriteanim/raster"
)

// Play starts playback. It does nothing when playing or empty.
func (a *Animator) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sched.Play()
}

func (a *Animator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sched.Pause()
}

// TogglePlay switches between playing and paused and returns whether the
// session is now playing.
func (a *Animator) TogglePlay() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sched.Toggle()
	return a.sched.Playing()
}

// SetFPS changes the playback rate, clamped to [1, 60].
func (a *Animator) SetFPS(fps float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sched.SetFrameRate(fps)
	a.log.Info("frame rate set", "fps", a.sched.FPS(), "frame_duration", a.sched.FrameDuration())
}

// State is a consistent snapshot of the session.
type State struct {
	Frames   int
	Selected int
	Current  int
	Shown    int
	Playing  bool
	FPS      float64
}

func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Frames:   a.frames.Len(),
		Selected: a.frames.Selected(),
		Current:  a.frames.Current(),
		Shown:    a.shown,
		Playing:  a.sched.Playing(),
		FPS:      a.sched.FPS(),
	}
}

// FrameInfo describes one frame in the list.
type FrameInfo struct {
	Index    int
	Size     image.Point
	Selected bool
}

// List describes every frame in order.
func (a *Animator) List() []FrameInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	frames := a.frames.Frames()
	list := make([]FrameInfo, len(frames))
	for i, f := range frames {
		list[i] = FrameInfo{
			Index:    i,
			Size:     f.Bounds().Size(),
			Selected: i == a.frames.Selected(),
		}
	}
	return list
}

func (a *Animator) View() *image.RGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return raster.Clone(a.view)
}

// SampleHex returns the "#RRGGBB" colour of the view at (x, y).
func (a *Animator) SampleHex(x, y int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return raster.SampleHex(a.view, x, y)
}

// Frames returns the frames in order. Stored frames are never modified in
// place, so the result stays valid after later edits.
func (a *Animator) Frames() []*image.RGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames.Frames()
}

// ExportSheet encodes all frames side by side in one image. It returns
// export.ErrNothingToExport when there are no frames.
func (a *Animator) ExportSheet() ([]byte, error) {
	frames := export.FrameList(a.Frames())
	data, err := export.Sheet(frames, a.sheetFormat)
	a.logExport("sheet", len(frames), data, err)
	return data, err
}

// ExportArchive packs every frame into an archive on another goroutine and
// calls done once with the result. Frames edited after the call are not
// included.
func (a *Animator) ExportArchive(ctx context.Context, done func([]byte, error)) {
	frames := export.FrameList(a.Frames())
	export.ArchiveAsync(ctx, frames, a.archive, func(data []byte, err error) {
		a.logExport("archive", len(frames), data, err)
		done(data, err)
	})
}

// ExportAnimation encodes the frames as an animated GIF at the current
// playback rate using pal.
func (a *Animator) ExportAnimation(ctx context.Context, pal color.Palette, dither bool) ([]byte, error) {
	a.mu.Lock()
	frames := export.FrameList(a.frames.Frames())
	fps := a.sched.FPS()
	a.mu.Unlock()

	data, err := export.Animation(ctx, frames, export.AnimationOptions{
		FPS:     fps,
		Palette: pal,
		Dither:  dither,
		Workers: a.archive.Workers,
	})
	a.logExport("animation", len(frames), data, err)
	return data, err
}

func (a *Animator) logExport(kind string, frames int, data []byte, err error) {
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		a.log.Info("nothing to export", "kind", kind)
	case err != nil:
		a.log.Error("export failed", "kind", kind, "error", err)
	default:
		a.log.Info("exported", "kind", kind, "frames", frames, "size", humanize.Bytes(uint64(len(data))))
	}
}
