// Package playback advances a frame cursor at a fixed rate.
package playback

import (
	"log/slog"
	"sync"
	"time"
)

const (
	MinFPS     = 1
	MaxFPS     = 60
	DefaultFPS = 5
)

// Cursor is the frame collection the scheduler steps through.
type Cursor interface {
	Len() int
	Advance() int
}

// Scheduler moves a Cursor forward on every timer tick while playing.
//
// Play, Pause, Toggle and SetFrameRate must be called while holding the
// lock the scheduler was created with. Ticks take the lock themselves, so
// a tick never overlaps another tick or any other holder of the lock.
type Scheduler struct {
	mu     sync.Locker
	cursor Cursor
	timer  Timer
	onTick func(index int)

	fps     float64
	playing bool
	stop    func()
	// gen identifies the running timer; ticks from a cancelled timer that
	// were already waiting on the lock see a stale value and are dropped.
	gen uint64
}

// New returns a stopped scheduler at DefaultFPS. onTick, if not nil, is
// called with the new cursor position after each advance, with mu held.
func New(mu sync.Locker, cursor Cursor, timer Timer, onTick func(index int)) *Scheduler {
	if timer == nil {
		timer = Ticker{}
	}
	return &Scheduler{
		mu:     mu,
		cursor: cursor,
		timer:  timer,
		onTick: onTick,
		fps:    DefaultFPS,
	}
}

func (s *Scheduler) Playing() bool { return s.playing }

func (s *Scheduler) FPS() float64 { return s.fps }

// FrameDuration returns the time between ticks, 1000/fps milliseconds.
func (s *Scheduler) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / s.fps)
}

// Play starts advancing the cursor. It does nothing when already playing
// or when there are no frames.
func (s *Scheduler) Play() {
	if s.playing || s.cursor.Len() == 0 {
		return
	}
	s.playing = true
	s.start()
}

func (s *Scheduler) Pause() {
	s.playing = false
	s.cancel()
}

func (s *Scheduler) Toggle() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// SetFrameRate sets the rate clamped to [MinFPS, MaxFPS]. A running timer
// is replaced so the new rate applies from the next tick.
func (s *Scheduler) SetFrameRate(fps float64) {
	if fps != fps { // NaN
		fps = MinFPS
	}
	s.fps = min(max(fps, MinFPS), MaxFPS)
	slog.Debug("frame rate set", "fps", s.fps, "frame_duration", s.FrameDuration())
	if s.playing {
		s.start()
	}
}

func (s *Scheduler) start() {
	s.cancel()
	s.gen++
	gen := s.gen
	s.stop = s.timer.Every(s.FrameDuration(), func() { s.tick(gen) })
}

func (s *Scheduler) cancel() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing || gen != s.gen {
		return
	}
	if s.cursor.Len() == 0 {
		return
	}
	idx := s.cursor.Advance()
	if s.onTick != nil {
		s.onTick(idx)
	}
}
