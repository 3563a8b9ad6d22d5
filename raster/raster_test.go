package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// numbered returns a w×h opaque buffer whose pixel (x, y) has R=x, G=y and
// B a running index, so every pixel is distinct.
func numbered(w, h int) *image.RGBA {
	buf := New(w, h)
	for y := range h {
		for x := range w {
			buf.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(y*w + x), A: 0xff})
		}
	}
	return buf
}

func TestNew(t *testing.T) {
	buf := New(3, 2)
	if got, want := len(buf.Pix), 3*2*4; got != want {
		t.Errorf("unexpected pixel length: got:%d want:%d", got, want)
	}
	for i, b := range buf.Pix {
		if b != 0 {
			t.Fatalf("unexpected non-zero byte at %d: %d", i, b)
		}
	}
}

func TestFill(t *testing.T) {
	buf := New(4, 4)
	c := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	Fill(buf, c)
	for y := range 4 {
		for x := range 4 {
			if got := buf.RGBAAt(x, y); got != c {
				t.Fatalf("unexpected pixel at (%d,%d): got:%v want:%v", x, y, got, c)
			}
		}
	}
}

func TestCopyRegion(t *testing.T) {
	src := numbered(8, 8)

	t.Run("same_size", func(t *testing.T) {
		dst := New(2, 2)
		err := CopyRegion(dst, dst.Bounds(), src, image.Rect(3, 4, 5, 6), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for y := range 2 {
			for x := range 2 {
				if got, want := dst.RGBAAt(x, y), src.RGBAAt(x+3, y+4); got != want {
					t.Errorf("unexpected pixel at (%d,%d): got:%v want:%v", x, y, got, want)
				}
			}
		}
	})

	t.Run("nearest_upscale", func(t *testing.T) {
		dst := New(4, 4)
		err := CopyRegion(dst, dst.Bounds(), src, image.Rect(0, 0, 2, 2), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for y := range 4 {
			for x := range 4 {
				if got, want := dst.RGBAAt(x, y), src.RGBAAt(x/2, y/2); got != want {
					t.Errorf("unexpected pixel at (%d,%d): got:%v want:%v", x, y, got, want)
				}
			}
		}
	})

	t.Run("smoothing", func(t *testing.T) {
		dst := New(16, 16)
		err := CopyRegion(dst, dst.Bounds(), src, src.Bounds(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.RGBAAt(8, 8).A == 0 {
			t.Error("expected smoothed copy to be drawn")
		}
	})

	for _, sr := range []image.Rectangle{
		image.Rect(6, 6, 10, 10),
		image.Rect(-1, 0, 2, 2),
		image.Rect(2, 2, 2, 2),
	} {
		err := CopyRegion(New(2, 2), image.Rect(0, 0, 2, 2), src, sr, false)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("expected range error for %v, got:%v", sr, err)
		}
		var rerr *RangeError
		if !errors.As(err, &rerr) {
			t.Errorf("expected *RangeError for %v, got:%T", sr, err)
		}
	}
}

func TestRotate90(t *testing.T) {
	src := numbered(3, 2)
	got := Rotate90(src)
	if got.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Fatalf("unexpected bounds: %v", got.Bounds())
	}
	// Clockwise: out(x, y) = in(y, h-1-x).
	for y := range 3 {
		for x := range 2 {
			if g, w := got.RGBAAt(x, y), src.RGBAAt(y, 1-x); g != w {
				t.Errorf("unexpected pixel at (%d,%d): got:%v want:%v", x, y, g, w)
			}
		}
	}
}

func TestRotate90FullTurn(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {3, 2}, {5, 7}, {32, 32}} {
		src := numbered(size.X, size.Y)
		// A partially transparent pixel survives untouched.
		src.SetRGBA(0, 0, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40})
		got := src
		for range 4 {
			got = Rotate90(got)
		}
		if !cmp.Equal(got.Pix, src.Pix) || got.Bounds() != src.Bounds() {
			t.Errorf("four rotations of %v did not return the original", size)
		}
	}
}

func TestClone(t *testing.T) {
	src := numbered(4, 4)
	sub := src.SubImage(image.Rect(1, 1, 3, 3))
	got := Clone(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds: %v", got.Bounds())
	}
	if got.RGBAAt(0, 0) != src.RGBAAt(1, 1) {
		t.Errorf("unexpected origin pixel: %v", got.RGBAAt(0, 0))
	}
	got.Pix[0] = 0xaa
	if src.Pix[src.PixOffset(1, 1)] == 0xaa {
		t.Error("clone aliases its source")
	}
}

func TestSampleHex(t *testing.T) {
	buf := New(2, 2)
	buf.SetRGBA(1, 0, color.RGBA{R: 0xab, G: 0x0c, B: 0xff, A: 0xff})
	got, err := SampleHex(buf, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "#AB0CFF" {
		t.Errorf("unexpected hex: got:%s want:#AB0CFF", got)
	}

	for _, p := range []image.Point{{-1, 0}, {2, 0}, {0, 2}} {
		_, err := SampleHex(buf, p.X, p.Y)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("expected range error at %v, got:%v", p, err)
		}
	}
}

var parseHexTests = []struct {
	in      string
	want    color.NRGBA
	wantErr bool
}{
	{in: "#fff", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	{in: "#1234", want: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
	{in: "#a0b1c2", want: color.NRGBA{R: 0xa0, G: 0xb1, B: 0xc2, A: 0xff}},
	{in: "#a0b1c280", want: color.NRGBA{R: 0xa0, G: 0xb1, B: 0xc2, A: 0x80}},
	{in: "ffffff", wantErr: true},
	{in: "#ggg", wantErr: true},
	{in: "", wantErr: true},
}

func TestParseHex(t *testing.T) {
	for _, test := range parseHexTests {
		got, err := ParseHex(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("unexpected error for %q: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("unexpected color for %q: got:%v want:%v", test.in, got, test.want)
		}
	}
}
