package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	// SaveBundleFile stores one uploaded file under the bundle's directory,
	// keeping its relative name. It returns the bytes written.
	SaveBundleFile(bundleID uuid.UUID, name string, file *multipart.FileHeader) (int64, error)
	BundlePath(bundleID uuid.UUID) string
	DeleteBundle(bundleID uuid.UUID) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) BundlePath(bundleID uuid.UUID) string {
	return filepath.Join(s.uploadPath, "bundles", bundleID.String())
}

func (s *storageService) SaveBundleFile(bundleID uuid.UUID, name string, file *multipart.FileHeader) (int64, error) {
	rel, err := cleanRelativeName(name)
	if err != nil {
		return 0, err
	}
	dstPath := filepath.Join(s.BundlePath(bundleID), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	return n, nil
}

func (s *storageService) DeleteBundle(bundleID uuid.UUID) error {
	if err := os.RemoveAll(s.BundlePath(bundleID)); err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	return nil
}

// cleanRelativeName rejects absolute names and names escaping the bundle root.
func cleanRelativeName(name string) (string, error) {
	n := path.Clean(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if n == "." || n == "" || strings.HasPrefix(n, "/") || n == ".." || strings.HasPrefix(n, "../") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return n, nil
}
