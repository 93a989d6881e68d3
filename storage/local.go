package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage implements Storage interface for the local filesystem
type LocalStorage struct {
	basePath   string
	publicPath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, publicPath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if publicPath == "" {
		publicPath = "/uploads"
	}

	return &LocalStorage{
		basePath:   basePath,
		publicPath: publicPath,
	}, nil
}

// BasePath returns the directory files are written under
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// Upload stores a file locally. The file is synced to disk before the call
// returns, so a reference to it may be recorded immediately afterwards.
func (s *LocalStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(fileID, filename)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	// Create directory structure
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Create file
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Copy data to file
	if _, err = io.Copy(file, data); err != nil {
		os.Remove(fullPath) // Clean up partial write
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err = file.Sync(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to sync file: %w", err)
	}

	return storagePath, nil
}

// Download retrieves a file from local storage
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file from local storage. Deleting an absent file is not
// an error.
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PublicURL maps a storage path to the path it is statically served under
func (s *LocalStorage) PublicURL(storagePath string) string {
	return path.Join(s.publicPath, storagePath)
}
