package blog

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface of the cryptoblog backend. Mutating
// operations take the caller's account id, which the boundary layer extracts
// from a verified session credential.
type Service interface {
	// Account operations
	Register(ctx context.Context, req RegisterRequest) (*Account, error)
	Login(ctx context.Context, email, password string) (*Account, string, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Account, error)
	EditAccount(ctx context.Context, req EditAccountRequest) (*Account, error)
	ChangeAvatar(ctx context.Context, accountID uuid.UUID, avatar *Upload) (*Account, error)

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	ListPostsByCategory(ctx context.Context, category Category) ([]*Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)
	EditPost(ctx context.Context, req EditPostRequest) (*Post, error)
	DeletePost(ctx context.Context, postID, callerID uuid.UUID) error

	// Contact operations
	SubmitContactQuery(ctx context.Context, req ContactRequest) (*ContactQuery, error)
}
