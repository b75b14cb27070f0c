// Package local guarda los archivos descargados o exportados en un directorio del disco.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"legal-document-manager/pkg/ports"
)

type localFileStorage struct {
	dir string
}

// NewLocalFileStorage crea una nueva instancia de FileStorage sobre dir; lo crea si no existe.
func NewLocalFileStorage(dir string) (ports.FileStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &localFileStorage{dir: abs}, nil
}

// Save implementa ports.FileStorage. Si el nombre ya existe agrega " (n)" antes de la extensión.
func (s *localFileStorage) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	f, target, err := s.create(base)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return target, nil
}

func (s *localFileStorage) create(base string) (*os.File, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 0; ; n++ {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		target := filepath.Join(s.dir, candidate)

		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file: %w", err)
		}
		return f, target, nil
	}
}

// GenerateDownloadURL implementa ports.FileStorage con una URL file://.
func (s *localFileStorage) GenerateDownloadURL(_ context.Context, location string) (string, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve location: %w", err)
	}
	if rel, err := filepath.Rel(s.dir, abs); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("location %q is outside %s", location, s.dir)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Asegurarse de que localFileStorage implementa ports.FileStorage
var _ ports.FileStorage = (*localFileStorage)(nil)
