package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ayushpk/cryptoblog/pkg/blog"
	"github.com/ayushpk/cryptoblog/pkg/utils"
)

// Backend is a filesystem implementation of the blog.BlobStore interface.
// The asset id is the file path relative to the base directory.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix the files are served under
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.URLPrefix == "" {
		return nil, errors.New("url prefix is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// Upload writes the payload to disk under a fresh asset id
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params blog.UploadParams) (*blog.Asset, error) {
	id := uuid.New().String()
	if ext := filepath.Ext(utils.SanitizeFilename(params.FileName)); ext != "" {
		id += ext
	}

	filePath := filepath.Join(b.baseDir, id)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return &blog.Asset{
		ID:  id,
		URL: fmt.Sprintf("%s/%s", b.urlPrefix, id),
	}, nil
}

// Delete removes an asset from disk. Ids resolving outside the base
// directory are rejected.
func (b *Backend) Delete(ctx context.Context, assetID string) error {
	base := filepath.Clean(b.baseDir)
	filePath := filepath.Join(base, filepath.Clean(assetID))
	if filePath == base || !strings.HasPrefix(filePath, base+string(filepath.Separator)) {
		return fmt.Errorf("asset id %q escapes base directory", assetID)
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return blog.ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
