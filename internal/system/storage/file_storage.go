// Package storage provides file persistence for fulfillment deliverables and
// certificate template backgrounds.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campushr/hr-management-api/internal/system/log"
)

// FileStore abstracts file persistence so handlers never touch the disk layout.
type FileStore interface {
	Save(path string, content []byte) error
	Read(path string) ([]byte, error)
	Delete(path string) error
	FullPath(path string) string
}

// LocalFileStore implements FileStore on the local filesystem.
type LocalFileStore struct {
	baseDir string
}

// NewLocalFileStore creates a file store rooted at baseDir.
func NewLocalFileStore(baseDir string) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir}
}

// Save writes content to the given relative path, creating parent directories.
func (s *LocalFileStore) Save(path string, content []byte) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "FileStore"))

	fullPath := s.FullPath(path)
	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		logger.Error("Failed to create parent directories", log.String("path", fullPath), log.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		logger.Error("Failed to write file", log.String("path", fullPath), log.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug("File saved", log.String("path", fullPath), log.Int("size", len(content)))
	return nil
}

// Read returns the content stored at the given relative path.
func (s *LocalFileStore) Read(path string) ([]byte, error) {
	fullPath := s.FullPath(path)
	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Delete removes the file at the given relative path. Missing files are not an error.
func (s *LocalFileStore) Delete(path string) error {
	fullPath := s.FullPath(path)
	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath resolves a relative storage path against the base directory.
func (s *LocalFileStore) FullPath(path string) string {
	return filepath.Join(s.baseDir, path)
}

// validatePath rejects paths that escape the base directory.
func (s *LocalFileStore) validatePath(fullPath string) error {
	cleanBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}
	cleanPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(cleanPath, cleanBase+string(os.PathSeparator)) && cleanPath != cleanBase {
		return fmt.Errorf("path escapes storage directory: %s", fullPath)
	}
	return nil
}
