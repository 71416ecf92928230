package writers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/waftester/tdgen/pkg/defaults"
)

// AtomicFile is an io.WriteCloser that writes to a temporary file next to
// the destination and renames it into place on Close. Until Close succeeds
// the destination is untouched, so a failed run never leaves a partial
// artifact behind.
type AtomicFile struct {
	mu     sync.Mutex
	path   string
	tmp    *os.File
	done   bool
	failed error
}

// NewAtomicFile prepares an atomic write to path, creating parent
// directories as needed.
func NewAtomicFile(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		return nil, fmt.Errorf("writers: create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("writers: create temp file: %w", err)
	}
	return &AtomicFile{path: path, tmp: tmp}, nil
}

// Path returns the final destination.
func (f *AtomicFile) Path() string { return f.path }

func (f *AtomicFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return 0, os.ErrClosed
	}
	n, err := f.tmp.Write(p)
	if err != nil && f.failed == nil {
		f.failed = err
	}
	return n, err
}

// Close commits the file. If any earlier write failed the temp file is
// removed and the destination left untouched.
func (f *AtomicFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return nil
	}
	f.done = true

	if f.failed != nil {
		f.discard()
		return fmt.Errorf("writers: %s not written: %w", f.path, f.failed)
	}

	if err := f.tmp.Chmod(defaults.FilePerm); err != nil {
		f.discard()
		return fmt.Errorf("writers: chmod: %w", err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return fmt.Errorf("writers: sync: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("writers: close: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("writers: rename into place: %w", err)
	}
	return nil
}

// Abort drops everything written so far.
func (f *AtomicFile) Abort() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}

// OpenOutput returns the destination for path: standard output for "-",
// otherwise an AtomicFile.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == defaults.StdoutPath {
		return nopCloser{stdout}, nil
	}
	return NewAtomicFile(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// abortable is implemented by destinations that can discard pending output.
type abortable interface{ Abort() }

func abortDest(w io.Writer) {
	if a, ok := w.(abortable); ok {
		a.Abort()
	}
}

// closeDest closes w if it is an io.Closer.
func closeDest(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// errAborted is returned when Close is called on an aborted writer.
var errAborted = errors.New("writers: output aborted")
