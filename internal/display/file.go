package display

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FileSink rewrites a PNG file with every frame. Readers never see a
// partially written image: each frame goes to a temp file that is renamed
// over the target.
type FileSink struct {
	path string
}

// NewFileSink returns a sink writing to path. The directory must exist.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the target file.
func (f *FileSink) Path() string {
	return f.path
}

// Show writes frame to the target file using the temp-file, fsync, rename
// pattern.
func (f *FileSink) Show(frame image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".frame-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := png.Encode(w, frame); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding frame: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
