package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/office-letters/internal/models"
)

const generatedDir = "generated"

// StorageService maps generated documents onto disk. Paths handed to callers
// and stored in the database are relative to the storage root.
type StorageService interface {
	EnsureGeneratedDir() error
	GeneratedPath(documentID uint, fileType models.FileType) (relPath string, absPath string)
	GetFilePath(relPath string) (string, error)
	DeleteFile(relPath string) error
	GeneratedRoot() string
}

type storageService struct {
	root string
}

func NewStorageService(root string) StorageService {
	return &storageService{
		root: root,
	}
}

func (s *storageService) GeneratedRoot() string {
	return filepath.Join(s.root, generatedDir)
}

func (s *storageService) EnsureGeneratedDir() error {
	if err := os.MkdirAll(s.GeneratedRoot(), 0o755); err != nil {
		return fmt.Errorf("failed to create generated directory: %w", err)
	}

	return nil
}

// GeneratedPath names the file doc_{id}.{ext}.
func (s *storageService) GeneratedPath(documentID uint, fileType models.FileType) (string, string) {
	name := fmt.Sprintf("doc_%d.%s", documentID, fileType)
	rel := generatedDir + "/" + name
	return rel, filepath.Join(s.GeneratedRoot(), name)
}

// GetFilePath resolves a stored relative path, refusing anything that would
// escape the storage root.
func (s *storageService) GetFilePath(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path: %q", relPath)
	}
	return filepath.Join(s.root, clean), nil
}

// DeleteFile removes a stored file. A file that is already gone is not an error.
func (s *storageService) DeleteFile(relPath string) error {
	path, err := s.GetFilePath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
