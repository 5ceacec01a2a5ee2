package fs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

// Writer stores build output under a directory. Every file is replaced
// atomically. It implements core.Sink.
type Writer struct {
	Dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write stores data at the slash separated name below the output directory.
// Unchanged files are left untouched so their modification time survives.
func (w *Writer) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(name)
	if err != nil {
		return err
	}
	if current, err := os.ReadFile(target); err == nil && string(current) == string(data) {
		return nil
	}
	return writeFileAtomic(target, data, 0644)
}

// Retain deletes the files directly under dir whose name is not in keep.
func (w *Writer) Retain(ctx context.Context, dir string, keep map[string]bool) error {
	target, err := w.resolve(dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || keep[e.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(target, e.Name())); err != nil {
			return fmt.Errorf("failed to remove stale output %s: %w", path.Join(dir, e.Name()), err)
		}
	}
	return nil
}

func (w *Writer) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	return filepath.Join(w.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

var _ core.Sink = (*Writer)(nil)
