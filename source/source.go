// Package source decodes user supplied images before they are sliced into
// frames. Only formats that have been allowed are accepted.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"slices"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"spriteanim/parallel"
)

// ErrInputRejected is matched by every *RejectedError.
var ErrInputRejected = errors.New("input rejected")

// RejectedError reports a source that is not an image in an allowed
// format.
type RejectedError struct {
	Name   string
	Format string // detected format, empty when unknown
	Err    error
}

func (e *RejectedError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: not a usable image: %v", e.Name, e.Err)
	case e.Format == "":
		return fmt.Sprintf("%s: unrecognised image format", e.Name)
	default:
		return fmt.Sprintf("%s: %s images are not allowed", e.Name, e.Format)
	}
}

func (e *RejectedError) Is(target error) bool { return target == ErrInputRejected }

func (e *RejectedError) Unwrap() error { return e.Err }

// Formats lists every format that can be allowed.
var Formats = []string{"png", "gif", "jpeg", "bmp", "tiff", "webp"}

// DefaultFormats lists the formats allowed when none are configured.
var DefaultFormats = []string{"png"}

var magic = []struct {
	format string
	sig    string
}{
	{"png", "\x89PNG\r\n\x1a\n"},
	{"gif", "GIF8?a"},
	{"jpeg", "\xff\xd8"},
	{"bmp", "BM"},
	{"tiff", "II*\x00"},
	{"tiff", "MM\x00*"},
	{"webp", "RIFF????WEBP"},
}

// Sniff returns the format of the data at the start of r, or "" if it is
// not recognised.
func Sniff(r *bufio.Reader) string {
	for _, m := range magic {
		b, err := r.Peek(len(m.sig))
		if err != nil || len(b) != len(m.sig) {
			continue
		}
		ok := true
		for i, c := range b {
			if m.sig[i] != c && m.sig[i] != '?' {
				ok = false
				break
			}
		}
		if ok {
			return m.format
		}
	}
	return ""
}

// Decoder decodes images in its allowed formats.
type Decoder struct {
	allowed []string
}

// NewDecoder returns a decoder accepting formats, or DefaultFormats when
// formats is empty.
func NewDecoder(formats ...string) (*Decoder, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	for _, f := range formats {
		if !slices.Contains(Formats, f) {
			return nil, fmt.Errorf("unsupported input format: %s", f)
		}
	}
	return &Decoder{allowed: slices.Clone(formats)}, nil
}

// Decode reads one image from r. name is used in errors only.
func (d *Decoder) Decode(name string, r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	format := Sniff(br)
	if format == "" || !slices.Contains(d.allowed, format) {
		return nil, &RejectedError{Name: name, Format: format}
	}
	img, _, err := image.Decode(br)
	if err != nil {
		return nil, &RejectedError{Name: name, Format: format, Err: err}
	}
	return img, nil
}

// DecodeFile decodes the image at path.
func (d *Decoder) DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()
	return d.Decode(path, f)
}

// DecodeFiles decodes paths concurrently, returning the images in the same
// order. Rejected files are logged and skipped so the remaining files are
// still used; other errors abort.
func (d *Decoder) DecodeFiles(ctx context.Context, workers int, paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, len(paths))
	err := parallel.Each(ctx, workers, len(paths), func(i int) error {
		img, err := d.DecodeFile(paths[i])
		if errors.Is(err, ErrInputRejected) {
			slog.Warn("skipping source", "file", paths[i], "error", err)
			return nil
		}
		imgs[i] = img
		return err
	})
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(imgs, func(img image.Image) bool { return img == nil }), nil
}
