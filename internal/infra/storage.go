package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrArchivoGrande is returned by FileStore.Save when the content exceeds the
// configured limit. The partial file is removed.
var ErrArchivoGrande = errors.New("archivo demasiado grande")

// FileStore keeps uploaded documents under a base directory. Paths handed to
// it are relative to that directory and may not escape it.
type FileStore struct {
	base     string
	maxBytes int64
}

func NewFileStore(base string, maxBytes int64) (*FileStore, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", base, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", abs, err)
	}
	return &FileStore{base: abs, maxBytes: maxBytes}, nil
}

// MaxBytes is the upload limit; zero means unlimited.
func (fs *FileStore) MaxBytes() int64 { return fs.maxBytes }

// Path returns the absolute path for rel.
func (fs *FileStore) Path(rel string) (string, error) {
	p := filepath.Join(fs.base, filepath.FromSlash(rel))
	if p != fs.base && !strings.HasPrefix(p, fs.base+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: ruta fuera del almacen: %s", rel)
	}
	return p, nil
}

// Save writes r to rel, creating parent directories, and returns the number
// of bytes written.
func (fs *FileStore) Save(rel string, r io.Reader) (int64, error) {
	p, err := fs.Path(rel)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return 0, fmt.Errorf("storage: create dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("storage: create file: %w", err)
	}

	src := r
	if fs.maxBytes > 0 {
		src = io.LimitReader(r, fs.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && fs.maxBytes > 0 && n > fs.maxBytes {
		err = ErrArchivoGrande
	}
	if err != nil {
		_ = os.Remove(p)
		if errors.Is(err, ErrArchivoGrande) {
			return 0, err
		}
		return 0, fmt.Errorf("storage: write: %w", err)
	}
	return n, nil
}

// Remove deletes rel. A missing file is not an error.
func (fs *FileStore) Remove(rel string) error {
	p, err := fs.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}
