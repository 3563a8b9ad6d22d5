// Package store holds the ordered frame collection of an animation along
// with its selection and playback cursor.
//
// A Store is not safe for concurrent use. Its owner serialises access,
// see the animator package.
package store

import (
	"image"

	"spriteanim/raster"
)

// Store is an ordered set of frames. Stores must be created with New.
type Store struct {
	frames   []*image.RGBA
	selected int // -1 when empty
	current  int

	listeners []func(count int)
}

func New() *Store {
	return &Store{selected: -1}
}

// OnChange registers fn to be called with the new frame count whenever
// frames are added or removed.
func (s *Store) OnChange(fn func(count int)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() {
	n := len(s.frames)
	for _, fn := range s.listeners {
		fn(n)
	}
}

func (s *Store) Len() int { return len(s.frames) }

func (s *Store) Selected() int { return s.selected }

func (s *Store) Current() int { return s.current }

// Frame returns the frame at i. The returned image belongs to the store
// and must not be modified; use ReplaceAt to change a frame.
func (s *Store) Frame(i int) (*image.RGBA, bool) {
	if i < 0 || i >= len(s.frames) {
		return nil, false
	}
	return s.frames[i], true
}

// Frames returns the frames in order. The slice is a copy but the images
// are shared with the store.
func (s *Store) Frames() []*image.RGBA {
	return append([]*image.RGBA(nil), s.frames...)
}

// Append adds copies of frames to the end of the store. When the store was
// empty the first new frame becomes both the selection and the playback
// cursor.
func (s *Store) Append(frames ...image.Image) {
	if len(frames) == 0 {
		return
	}
	wasEmpty := len(s.frames) == 0
	for _, f := range frames {
		s.frames = append(s.frames, raster.Clone(f))
	}
	if wasEmpty {
		s.selected = 0
		s.current = 0
	}
	s.changed()
}

func (s *Store) Select(i int) {
	if i < 0 || i >= len(s.frames) {
		return
	}
	s.selected = i
}

// RemoveSelected deletes the selected frame. The frame that slides into
// the vacated slot becomes selected, or the new last frame when the last
// one was removed.
func (s *Store) RemoveSelected() {
	if s.selected == -1 {
		return
	}
	i := s.selected
	copy(s.frames[i:], s.frames[i+1:])
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]

	if len(s.frames) == 0 {
		s.selected = -1
		s.current = 0
	} else {
		s.selected = min(s.selected, len(s.frames)-1)
		s.current %= len(s.frames)
	}
	s.changed()
}

// ReplaceAt swaps the frame at i for a copy of frame. Invalid indexes are
// ignored.
func (s *Store) ReplaceAt(i int, frame image.Image) {
	if i < 0 || i >= len(s.frames) {
		return
	}
	s.frames[i] = raster.Clone(frame)
}

// Advance moves the playback cursor to the next frame, wrapping at the
// end, and returns it. An empty store leaves the cursor alone.
func (s *Store) Advance() int {
	if len(s.frames) == 0 {
		return s.current
	}
	s.current = (s.current + 1) % len(s.frames)
	return s.current
}
