package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// Backend is an in-memory implementation of the blog.BlobStore interface
type Backend struct {
	mu     sync.RWMutex
	assets map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		assets: make(map[string][]byte),
	}
}

// Upload stores the payload in memory and returns a synthetic asset handle
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params blog.UploadParams) (*blog.Asset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New().String()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.assets[id] = data

	return &blog.Asset{
		ID:  id,
		URL: fmt.Sprintf("memory://assets/%s", id),
	}, nil
}

// Delete removes an asset from memory
func (b *Backend) Delete(ctx context.Context, assetID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.assets[assetID]; !exists {
		return blog.ErrAssetNotFound
	}

	delete(b.assets, assetID)
	return nil
}

// Has reports whether an asset is currently stored
func (b *Backend) Has(assetID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.assets[assetID]
	return exists
}

// Len returns the number of stored assets
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.assets)
}
