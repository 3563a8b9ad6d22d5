package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"spriteanim/parallel"
)

// ArchiveWriter adds named entries to an archive.
type ArchiveWriter interface {
	Create(name string) (io.Writer, error)
	Close() error
}

var (
	archiversMu sync.RWMutex
	archivers   = map[string]func(io.Writer) ArchiveWriter{
		"zip": func(w io.Writer) ArchiveWriter { return zip.NewWriter(w) },
	}
)

// RegisterArchiver makes an archive format available under name. A nil
// fn removes the format.
func RegisterArchiver(name string, fn func(io.Writer) ArchiveWriter) {
	archiversMu.Lock()
	defer archiversMu.Unlock()
	if fn == nil {
		delete(archivers, name)
		return
	}
	archivers[name] = fn
}

func archiver(name string) (func(io.Writer) ArchiveWriter, bool) {
	archiversMu.RLock()
	defer archiversMu.RUnlock()
	fn, ok := archivers[name]
	return fn, ok
}

// ArchiveOptions configures Archive.
type ArchiveOptions struct {
	// Format is the registered archive format, "zip" when empty.
	Format string
	// Workers is the number of frames encoded concurrently, GOMAXPROCS
	// when less than one.
	Workers int
}

// EntryName returns the archive entry name of the frame at index i.
func EntryName(i int) string {
	return fmt.Sprintf("frame_%d.png", i+1)
}

// Archive encodes every frame of src as a PNG and packs them, in order,
// into one archive with entries named frame_1.png, frame_2.png and so on.
func Archive(ctx context.Context, src Source, opts ArchiveOptions) ([]byte, error) {
	frames := src.Frames()
	if len(frames) == 0 {
		return nil, ErrNothingToExport
	}
	format := opts.Format
	if format == "" {
		format = "zip"
	}
	newArchive, ok := archiver(format)
	if !ok {
		return nil, fmt.Errorf("%w: no %q writer", ErrMissingDependency, format)
	}

	encoded := make([][]byte, len(frames))
	err := parallel.Each(ctx, opts.Workers, len(frames), func(i int) error {
		var buf bytes.Buffer
		if err := Encode(&buf, frames[i], "png"); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		encoded[i] = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	arc := newArchive(&buf)
	for i, data := range encoded {
		w, err := arc.Create(EntryName(i))
		if err != nil {
			return nil, &EncodeError{Op: "create archive entry " + EntryName(i), Err: err}
		}
		if _, err := w.Write(data); err != nil {
			return nil, &EncodeError{Op: "write archive entry " + EntryName(i), Err: err}
		}
	}
	if err := arc.Close(); err != nil {
		return nil, &EncodeError{Op: "finish archive", Err: err}
	}
	slog.Debug("archive built", "format", format, "entries", len(encoded), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ArchiveAsync runs Archive on a new goroutine and calls done exactly once
// with its result.
func ArchiveAsync(ctx context.Context, src Source, opts ArchiveOptions, done func([]byte, error)) {
	frames := src.Frames()
	go func() {
		done(Archive(ctx, FrameList(frames), opts))
	}()
}
