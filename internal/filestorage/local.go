package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads under a base directory and maps them to public
// URLs served by the static file route.
type LocalStore struct {
	baseDir       string
	publicBaseURL string
}

func NewLocalStore(baseDir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Store writes the stream to {base}/{subdir}/{filename} and returns the
// public URL. The filename is sanitized to its base name so callers cannot
// escape the upload directory.
func (s *LocalStore) Store(subdir, filename string, r io.Reader) (string, error) {
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename")
	}

	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create subdir %s: %w", subdir, err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, subdir, filename), nil
}

// BaseDir exposes the storage root for the static file route.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}
