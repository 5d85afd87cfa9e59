// Package storage is the durable home of uploaded artifacts. Records in the
// submission collection reference files here by path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

// Save writes the stream to a collision-resistant file name built from the
// form field name, the current time, and a random suffix, keeping the
// original extension. It returns the stored path.
func (d *Disk) Save(field, originalName string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.New().String(), filepath.Ext(originalName))
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close artifact: %w", err)
	}
	return path, nil
}

// Open returns the artifact for reading. The error wraps fs.ErrNotExist
// when the file is gone so callers can surface a not-found.
func (d *Disk) Open(path string) (io.ReadSeekCloser, error) {
	return os.Open(path)
}

// Remove deletes an artifact. Removing an already-absent file is not an
// error; cleanup must be idempotent.
func (d *Disk) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
