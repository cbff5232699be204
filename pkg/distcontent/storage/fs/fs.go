// Package fs provides a filesystem BlobStore for local development.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix returned for stored objects
}

// Backend is a filesystem implementation of the distcontent.BlobStore
// interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

// Upload writes the object under the base directory and returns its URL.
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return b.objectURL(objectKey), nil
}

// Delete removes the object file.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath := filepath.Join(b.baseDir, objectKey)
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return errors.New("object not found")
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetDownloadURL returns the URL for the object.
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error) {
	if _, err := os.Stat(filepath.Join(b.baseDir, objectKey)); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("object not found")
		}
		return "", err
	}
	return b.objectURL(objectKey), nil
}

func (b *Backend) objectURL(objectKey string) string {
	if b.urlPrefix == "" {
		return "file://" + filepath.Join(b.baseDir, objectKey)
	}
	return b.urlPrefix + "/" + objectKey
}
