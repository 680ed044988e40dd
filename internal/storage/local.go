package storage

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

// allowed image extensions for snack pictures
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage persists uploaded images on the local filesystem and returns
// the public reference path consumed as Snack.ImageURL
type LocalStorage struct {
	dir     string
	baseURL string
	maxSize int64
}

// NewLocalStorage creates a local storage rooted at dir. The directory is
// created on first save if missing.
func NewLocalStorage(dir, baseURL string, maxSize int64) *LocalStorage {
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}
}

// SaveImage stores an uploaded image under a uuid filename and returns its
// public reference path
func (s *LocalStorage) SaveImage(header *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", header.Size, s.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type: %q", ext)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	full := filepath.Join(s.dir, filename)

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(s.baseURL, filename), nil
}

// Delete removes a previously stored image by its reference path.
// Unknown references are a no-op.
func (s *LocalStorage) Delete(ref string) error {
	filename := path.Base(ref)
	if filename == "." || filename == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Dir returns the root directory served as static content
func (s *LocalStorage) Dir() string {
	return s.dir
}

// BaseURL returns the public path prefix image references are built from
func (s *LocalStorage) BaseURL() string {
	return s.baseURL
}
