package animator

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"spriteanim/export"
	"spriteanim/playback"
	"spriteanim/raster"
)

type manualTimer struct {
	mu     sync.Mutex
	next   int
	active map[int]func()
}

func (m *manualTimer) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		m.active = make(map[int]func())
	}
	id := m.next
	m.next++
	m.active[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.active, id)
		m.mu.Unlock()
	}
}

func (m *manualTimer) fire() {
	m.mu.Lock()
	var fns []func()
	for _, fn := range m.active {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// strip returns an n×1 row of 32×32 cells, each filled with a distinct
// opaque colour.
func strip(n int) *image.RGBA {
	img := raster.New(32*n, 32)
	for i := range n {
		c := cellColor(i)
		for y := range 32 {
			for x := range 32 {
				img.SetRGBA(i*32+x, y, c)
			}
		}
	}
	return img
}

func cellColor(i int) color.RGBA {
	return color.RGBA{R: uint8(40 * (i + 1)), G: 0x10, B: 0x20, A: 0xff}
}

func newTestAnimator(t *testing.T) (*Animator, *manualTimer) {
	t.Helper()
	timer := &manualTimer{}
	a := New(Options{
		View:   image.Point{X: 64, Y: 64},
		Timer:  timer,
		Logger: quiet(),
	})
	return a, timer
}

func TestPlayEmpty(t *testing.T) {
	a, timer := newTestAnimator(t)
	a.Play()
	if a.State().Playing {
		t.Error("empty session started playing")
	}
	if len(timer.active) != 0 {
		t.Error("empty session started a timer")
	}
	a.Pause()
}

func TestAddImages(t *testing.T) {
	a, _ := newTestAnimator(t)
	var counts []int
	a.OnFramesChanged(func(n int) { counts = append(counts, n) })

	if n := a.AddImages([]image.Image{strip(3)}, true); n != 3 {
		t.Fatalf("unexpected frames added: %d", n)
	}
	st := a.State()
	if st.Selected != 0 || st.Current != 0 || st.Shown != 0 {
		t.Errorf("unexpected state after first add: %+v", st)
	}
	if got := a.View().RGBAAt(10, 10); got != cellColor(0) {
		t.Errorf("first frame not shown: %v", got)
	}

	// A single frame source is scaled whole into one cell.
	if n := a.AddImages([]image.Image{strip(2)}, false); n != 1 {
		t.Fatalf("unexpected frames added in single mode: %d", n)
	}
	// Sources too small for a cell add nothing.
	if n := a.AddImages([]image.Image{raster.New(8, 8)}, true); n != 0 {
		t.Fatalf("unexpected frames added from small source: %d", n)
	}
	if a.State().Selected != 0 {
		t.Errorf("append changed selection: %d", a.State().Selected)
	}
	list := a.List()
	if len(list) != 4 {
		t.Fatalf("unexpected list length: %d", len(list))
	}
	if !list[0].Selected || list[3].Size != (image.Point{X: 32, Y: 32}) {
		t.Errorf("unexpected list: %+v", list)
	}
	if want := []int{3, 4}; !cmp.Equal(counts, want) {
		t.Errorf("unexpected change notifications:\n%s", cmp.Diff(want, counts))
	}
}

func TestPlaybackWraps(t *testing.T) {
	a, timer := newTestAnimator(t)
	var shown []int
	a.OnRender(func(i int) { shown = append(shown, i) })
	a.AddImages([]image.Image{strip(3)}, true)
	a.SetFPS(5)
	a.Play()
	if !a.State().Playing {
		t.Fatal("expected playing")
	}
	for range 3 {
		timer.fire()
	}
	st := a.State()
	if st.Current != 0 || st.Selected != 0 || st.Shown != 0 {
		t.Errorf("unexpected state after full cycle: %+v", st)
	}
	if want := []int{0, 1, 2, 0}; !cmp.Equal(shown, want) {
		t.Errorf("unexpected renders:\n%s", cmp.Diff(want, shown))
	}
	timer.fire()
	if got := a.View().RGBAAt(0, 0); got != cellColor(1) {
		t.Errorf("view not updated by tick: %v", got)
	}

	if a.TogglePlay() {
		t.Error("toggle did not pause")
	}
	timer.fire()
	if a.State().Current != 1 {
		t.Errorf("paused session advanced: %d", a.State().Current)
	}
}

func TestRemoveSelected(t *testing.T) {
	a, _ := newTestAnimator(t)
	var counts []int
	a.OnFramesChanged(func(n int) { counts = append(counts, n) })
	a.AddImages([]image.Image{strip(2)}, true)

	a.Select(1)
	a.RemoveSelected()
	if st := a.State(); st.Frames != 1 || st.Selected != 0 || st.Shown != 0 {
		t.Errorf("unexpected state after removing last: %+v", st)
	}
	a.RemoveSelected()
	st := a.State()
	if st.Frames != 0 || st.Selected != -1 || st.Shown != -1 {
		t.Errorf("unexpected state after removing all: %+v", st)
	}
	if got := a.View().RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("view not cleared: %v", got)
	}
	a.RemoveSelected()
	if want := []int{2, 1, 0}; !cmp.Equal(counts, want) {
		t.Errorf("unexpected change notifications:\n%s", cmp.Diff(want, counts))
	}
}

func TestRotateSelected(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.RotateSelected()

	src := raster.New(32, 32)
	src.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	a.AddImages([]image.Image{src}, true)
	a.RotateSelected()
	f := a.Frames()[0]
	if got := f.RGBAAt(31, 0); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("top left pixel did not move to top right: %v", got)
	}
	for range 3 {
		a.RotateSelected()
	}
	if !cmp.Equal(a.Frames()[0].Pix, src.Pix) {
		t.Error("full turn did not restore frame")
	}
}

func TestDisplayPreferences(t *testing.T) {
	a, _ := newTestAnimator(t)
	bg := color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	a.SetBackground(bg)
	if got := a.View().RGBAAt(0, 0); got != bg {
		t.Errorf("background not applied to empty view: %v", got)
	}
	hex, err := a.SampleHex(3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hex != "#336699" {
		t.Errorf("unexpected sample: %s", hex)
	}
	if _, err := a.SampleHex(64, 0); !errors.Is(err, raster.ErrOutOfRange) {
		t.Errorf("unexpected error sampling outside view: %v", err)
	}

	if !a.ToggleGrid() {
		t.Error("expected grid shown")
	}
	// Empty views show no grid.
	if got := a.View().RGBAAt(0, 0); got != bg {
		t.Errorf("grid drawn on empty view: %v", got)
	}
	a.AddImages([]image.Image{strip(1)}, true)
	if got := a.View().RGBAAt(0, 0); got == cellColor(0) {
		t.Error("grid not drawn over frame")
	}
	a.SetGrid(false)
	if got := a.View().RGBAAt(0, 0); got != cellColor(0) {
		t.Errorf("unexpected pixel without grid: %v", got)
	}
	if a.RenderConfig().ShowGrid {
		t.Error("expected grid hidden")
	}
}

func TestExportSheet(t *testing.T) {
	a, _ := newTestAnimator(t)
	if _, err := a.ExportSheet(); !errors.Is(err, export.ErrNothingToExport) {
		t.Errorf("unexpected error for empty export: %v", err)
	}
	a.AddImages([]image.Image{strip(2)}, true)
	data, err := a.ExportSheet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 32) {
		t.Fatalf("unexpected sheet bounds: %v", img.Bounds())
	}
	for i, p := range []image.Point{{5, 5}, {40, 5}} {
		got := color.RGBAModel.Convert(img.At(p.X, p.Y)).(color.RGBA)
		if got != cellColor(i) {
			t.Errorf("unexpected pixel for frame %d: %v", i, got)
		}
	}
}

func TestExportArchive(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.AddImages([]image.Image{strip(3)}, true)

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	a.ExportArchive(context.Background(), func(data []byte, err error) {
		done <- result{data, err}
	})
	// Edits after the request do not change the archive.
	a.RemoveSelected()

	var r result
	select {
	case r = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for archive")
	}
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	zr, err := zip.NewReader(bytes.NewReader(r.data), int64(len(r.data)))
	if err != nil {
		t.Fatalf("unexpected error reading archive: %v", err)
	}
	if len(zr.File) != 3 {
		t.Errorf("unexpected entry count: %d", len(zr.File))
	}
}

func TestExportAnimation(t *testing.T) {
	a, _ := newTestAnimator(t)
	a.AddImages([]image.Image{strip(2)}, true)
	data, err := a.ExportAnimation(context.Background(), color.Palette{color.Black, color.White}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty animation")
	}
}

func TestConcurrentPlayback(t *testing.T) {
	a := New(Options{Timer: playback.Ticker{}, FPS: 60, Logger: quiet()})
	a.AddImages([]image.Image{strip(4)}, true)
	a.Play()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Go(func() {
			for j := range 50 {
				switch (i + j) % 5 {
				case 0:
					a.Select(j % 4)
				case 1:
					a.ToggleGrid()
				case 2:
					a.SetFPS(float64(30 + j))
				case 3:
					_ = a.State()
				case 4:
					a.AddImages([]image.Image{strip(1)}, true)
				}
			}
		})
	}
	wg.Wait()
	a.Pause()

	st := a.State()
	if st.Playing {
		t.Error("expected paused")
	}
	if st.Current < 0 || st.Current >= st.Frames {
		t.Errorf("cursor out of range: %+v", st)
	}
}
