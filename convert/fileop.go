package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteError reports an output that could not be written. No partial file is
// left at Path when it is returned.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// save streams encode into a temporary file next to dest and renames it into
// place once everything has been written and synced.
func save(dest string, force bool, encode func(io.Writer) error) (err error) {
	if !force {
		if err := checkDest(dest); err != nil {
			return &WriteError{Path: dest, Err: err}
		}
	}

	dir, name := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return &WriteError{Path: dest, Err: fmt.Errorf("could not create temporary file: %w", err)}
	}
	tmpName := outFile.Name()
	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.Error("could not remove temporary file", "name", tmpName, "error", rmErr)
		}
		err = &WriteError{Path: dest, Err: err}
	}()

	if err = encode(outFile); err != nil {
		outFile.Close()
		return fmt.Errorf("could not encode: %w", err)
	}
	if err = outFile.Sync(); err != nil {
		outFile.Close()
		return fmt.Errorf("could not flush temporary file: %w", err)
	}
	if err = outFile.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("could not set permissions: %w", err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("could not rename temporary file: %w", err)
	}
	return nil
}

func checkDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file: %w", err)
		}
		return nil
	}
	if info.IsDir() {
		return fmt.Errorf("destination is a directory")
	}
	return fmt.Errorf("destination file already exists: %w", fs.ErrExist)
}
