// Package export serialises frame collections into sheet images,
// per-frame archives and animations.
package export

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Source provides the frames to export in order. Exported frames are only
// read.
type Source interface {
	Frames() []*image.RGBA
}

// Formats lists the image formats accepted by Encode.
var Formats = []string{"png", "gif", "jpeg", "bmp", "tiff"}

// Ext returns the file extension used for format.
func Ext(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return &EncodeError{Op: "encode PNG", Err: err}
		}
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return &EncodeError{Op: "encode GIF", Err: err}
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return &EncodeError{Op: "encode JPEG", Err: err}
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return &EncodeError{Op: "encode BMP", Err: err}
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return &EncodeError{Op: "encode TIFF", Err: err}
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}

// FrameList is a Source over a fixed slice of frames.
type FrameList []*image.RGBA

func (l FrameList) Frames() []*image.RGBA { return l }
