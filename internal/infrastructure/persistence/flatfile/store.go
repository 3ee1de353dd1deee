package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// LineStore reads and replaces the full set of lines of a named resource.
type LineStore interface {
	// ReadLines returns the lines of resource in order, or an empty slice
	// when the resource does not exist yet.
	ReadLines(ctx context.Context, resource string) ([]string, error)

	// WriteLines replaces the content of resource with exactly lines.
	WriteLines(ctx context.Context, resource string, lines []string) error
}

// FileStore keeps every resource as a text file under a root directory.
type FileStore struct {
	root string
}

var _ LineStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. Relative resource names are
// resolved against dir; absolute names are used as is.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Path returns the file that backs resource.
func (s *FileStore) Path(resource string) string {
	if filepath.IsAbs(resource) {
		return resource
	}
	return filepath.Join(s.root, resource)
}

// ReadLines implements LineStore.
func (s *FileStore) ReadLines(ctx context.Context, resource string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(resource)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, shared.WrapError("storage", "ReadLines", shared.ErrStorage, "cannot read "+path, err)
	}

	return splitLines(string(data)), nil
}

// WriteLines implements LineStore. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *FileStore) WriteLines(ctx context.Context, resource string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(resource)
	if err := writeFileAtomic(path, lines); err != nil {
		return shared.WrapError("storage", "WriteLines", shared.ErrStorage, "cannot write "+path, err)
	}
	return nil
}

func writeFileAtomic(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// splitLines splits on "\n", tolerating "\r\n". A single trailing newline
// does not produce an extra empty line.
func splitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
