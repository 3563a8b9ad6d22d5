package sprite

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Output names the file a command writes.
type Output struct {
	Out   string `short:"o" help:"Output file" type:"path"`
	Force bool   `help:"Overwrite an existing output file"`
}

// validate checks an explicitly named output file.
func (o *Output) validate() error {
	if o.Out == "" {
		return nil
	}
	return o.check()
}

// resolve names the output defaultName when none was given.
func (o *Output) resolve(defaultName string) error {
	if o.Out != "" {
		return nil
	}
	o.Out = defaultName
	return o.check()
}

func (o *Output) check() error {
	dest, err := filepath.Abs(o.Out)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", o.Out, err)
	}
	o.Out = dest

	info, err := os.Stat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("cannot stat output file %q: %w", dest, err)
	case !info.Mode().IsRegular():
		return fmt.Errorf("cannot write over non-regular file %q: %s", dest, info.Mode().String())
	case !o.Force:
		return fmt.Errorf("output file already exists: %q", dest)
	}
	return nil
}

// write stores data at o.Out through a temporary file in the same folder,
// so readers never see a partial file.
func (o *Output) write(data []byte) (err error) {
	dir, name := filepath.Split(o.Out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create output folder %q: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary output %q: %w", name, err)
	}
	canRename := false
	if err := outFile.Chmod(0o644); err != nil {
		slog.Warn("could not set output permissions", "name", outFile.Name(), "error", err)
	}
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary output %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary output %q: %w", name, defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), o.Out); defErr != nil {
				err = fmt.Errorf("could not rename output file %q: %w", name, defErr)
			} else {
				slog.Info("written", "file", o.Out, "size", humanize.Bytes(uint64(len(data))))
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil {
				slog.Error("could not remove temporary output", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if _, err = outFile.Write(data); err != nil {
		return fmt.Errorf("could not write output %q: %w", name, err)
	}
	canRename = true
	return nil
}
