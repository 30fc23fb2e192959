package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps uploaded import files on the local filesystem under a
// single base directory.
type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalStore{BaseDir: baseDir}
}

// Save persists an uploaded file under a collision-free name and returns
// the stored name relative to the base directory.
func (s *LocalStore) Save(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", s.BaseDir, err)
	}

	stored := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename))
	path := filepath.Join(s.BaseDir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file %s: %w", path, err)
	}

	return stored, nil
}

func (s *LocalStore) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	_ = ctx

	path := s.resolve(sourcePath)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a consumed import file. Callers treat failure as
// best-effort cleanup.
func (s *LocalStore) Remove(sourcePath string) error {
	return os.Remove(s.resolve(sourcePath))
}

func (s *LocalStore) resolve(sourcePath string) string {
	if filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	return filepath.Join(s.BaseDir, sourcePath)
}
