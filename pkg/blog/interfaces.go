package blog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for binary asset storage backends. Upload
// returns the opaque asset id and a stable access URL; Delete removes an
// asset by id and returns ErrAssetNotFound when it is already gone.
type BlobStore interface {
	Upload(ctx context.Context, reader io.Reader, params UploadParams) (*Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// UploadParams carries optional hints for an upload.
type UploadParams struct {
	FileName string
	MimeType string
}

// Repository defines the interface for record persistence. Implementations
// enforce email uniqueness on accounts (ErrEmailTaken) and return the
// package's not-found sentinels for missing records. A single call is atomic;
// multi-call sequences are not.
type Repository interface {
	// Account operations
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context) ([]*Post, error)
	ListPostsByCategory(ctx context.Context, category Category) ([]*Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)

	// Contact operations
	CreateContactQuery(ctx context.Context, query *ContactQuery) error
}

// Notifier delivers outbound notifications. Delivery is best effort: the
// service invokes it asynchronously and only logs failures.
type Notifier interface {
	ContactReceived(ctx context.Context, query *ContactQuery) error
}
