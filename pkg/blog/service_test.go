package blog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushpk/cryptoblog/pkg/blog"
	repomemory "github.com/ayushpk/cryptoblog/pkg/blog/repo/memory"
	memorystorage "github.com/ayushpk/cryptoblog/pkg/blog/storage/memory"
)

type testEnv struct {
	svc    blog.Service
	repo   *repomemory.Repository
	store  *memorystorage.Backend
	tokens *jwtauth.JWTAuth
}

func setupService(t *testing.T, extra ...blog.Option) *testEnv {
	t.Helper()

	repo := repomemory.New()
	store := memorystorage.New()
	tokens := jwtauth.New("HS256", []byte("test-secret"), nil)

	options := append([]blog.Option{
		blog.WithRepository(repo),
		blog.WithBlobStore(store),
		blog.WithTokenAuth(tokens),
		blog.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, extra...)

	svc, err := blog.New(options...)
	require.NoError(t, err)

	return &testEnv{svc: svc, repo: repo, store: store, tokens: tokens}
}

func registerAccount(t *testing.T, svc blog.Service, email string) *blog.Account {
	t.Helper()

	account, err := svc.Register(context.Background(), blog.RegisterRequest{
		Name:            "Test User",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return account
}

func imageUpload(size int) *blog.Upload {
	return &blog.Upload{
		Data:     make([]byte, size),
		FileName: "photo.png",
		MimeType: "image/png",
	}
}

func createTestPost(t *testing.T, env *testEnv, authorID uuid.UUID) *blog.Post {
	t.Helper()

	post, err := env.svc.CreatePost(context.Background(), blog.CreatePostRequest{
		AuthorID:    authorID,
		Title:       "Ethereum staking overview",
		Category:    blog.CategoryResearch,
		Description: "A longer look at staking yields.",
		Thumbnail:   imageUpload(1024),
	})
	require.NoError(t, err)
	return post
}

func TestServiceCreation(t *testing.T) {
	repo := repomemory.New()
	store := memorystorage.New()
	tokens := jwtauth.New("HS256", []byte("test-secret"), nil)

	tests := []struct {
		name    string
		options []blog.Option
		wantErr bool
	}{
		{
			name: "all required dependencies",
			options: []blog.Option{
				blog.WithRepository(repo),
				blog.WithBlobStore(store),
				blog.WithTokenAuth(tokens),
			},
			wantErr: false,
		},
		{
			name: "missing repository",
			options: []blog.Option{
				blog.WithBlobStore(store),
				blog.WithTokenAuth(tokens),
			},
			wantErr: true,
		},
		{
			name: "missing blob store",
			options: []blog.Option{
				blog.WithRepository(repo),
				blog.WithTokenAuth(tokens),
			},
			wantErr: true,
		},
		{
			name: "missing token auth",
			options: []blog.Option{
				blog.WithRepository(repo),
				blog.WithBlobStore(store),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := blog.New(tt.options...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")

	post := createTestPost(t, env, author.ID)

	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, blog.CategoryResearch, post.Category)
	assert.True(t, post.Thumbnail.Present())
	assert.True(t, env.store.Has(post.Thumbnail.AssetID))

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.PostCount)
}

func TestCreatePostValidation(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")

	tests := []struct {
		name string
		req  blog.CreatePostRequest
	}{
		{
			name: "missing title",
			req: blog.CreatePostRequest{
				AuthorID:    author.ID,
				Category:    blog.CategoryNews,
				Description: "some description",
				Thumbnail:   imageUpload(100),
			},
		},
		{
			name: "missing thumbnail",
			req: blog.CreatePostRequest{
				AuthorID:    author.ID,
				Title:       "title",
				Category:    blog.CategoryNews,
				Description: "some description",
			},
		},
		{
			name: "unknown category",
			req: blog.CreatePostRequest{
				AuthorID:    author.ID,
				Title:       "title",
				Category:    blog.Category("Gardening"),
				Description: "some description",
				Thumbnail:   imageUpload(100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreatePost(ctx, tt.req)
			assert.True(t, blog.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Nothing reached the blob store for the rejected requests except the
	// missing-thumbnail case, which never had a payload at all.
	assert.Equal(t, 0, env.store.Len())
}

func TestGetPostNotFound(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.GetPost(context.Background(), uuid.New())
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
}

func TestEditPost(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)
	oldAssetID := post.Thumbnail.AssetID

	updated, err := env.svc.EditPost(ctx, blog.EditPostRequest{
		PostID:      post.ID,
		CallerID:    author.ID,
		Title:       "Ethereum staking, revisited",
		Category:    blog.CategoryMarket,
		Description: "Updated yield figures for this quarter.",
		Thumbnail:   imageUpload(2048),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ethereum staking, revisited", updated.Title)
	assert.Equal(t, blog.CategoryMarket, updated.Category)
	assert.NotEqual(t, oldAssetID, updated.Thumbnail.AssetID)

	// Old thumbnail must be gone, only the replacement remains.
	assert.False(t, env.store.Has(oldAssetID))
	assert.True(t, env.store.Has(updated.Thumbnail.AssetID))
	assert.Equal(t, 1, env.store.Len())
}

func TestEditPostKeepsThumbnail(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	updated, err := env.svc.EditPost(ctx, blog.EditPostRequest{
		PostID:      post.ID,
		CallerID:    author.ID,
		Title:       "New title only",
		Category:    post.Category,
		Description: "A different description here.",
	})
	require.NoError(t, err)

	assert.Equal(t, post.Thumbnail, updated.Thumbnail)
	assert.True(t, env.store.Has(post.Thumbnail.AssetID))
}

func TestEditPostForbidden(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	other := registerAccount(t, env.svc, "other@example.com")
	post := createTestPost(t, env, author.ID)

	_, err := env.svc.EditPost(ctx, blog.EditPostRequest{
		PostID:      post.ID,
		CallerID:    other.ID,
		Title:       "Hijacked title",
		Category:    post.Category,
		Description: "Long enough description.",
	})
	assert.ErrorIs(t, err, blog.ErrForbidden)
}

func TestEditPostShortDescription(t *testing.T) {
	env := setupService(t)
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	_, err := env.svc.EditPost(context.Background(), blog.EditPostRequest{
		PostID:      post.ID,
		CallerID:    author.ID,
		Title:       "t",
		Category:    post.Category,
		Description: "too short",
	})
	assert.True(t, blog.IsValidation(err))
}

func TestDeletePost(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	require.NoError(t, env.svc.DeletePost(ctx, post.ID, author.ID))

	_, err := env.svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)
	assert.False(t, env.store.Has(post.Thumbnail.AssetID))

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PostCount)
}

func TestDeletePostForbidden(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	other := registerAccount(t, env.svc, "other@example.com")
	post := createTestPost(t, env, author.ID)

	err := env.svc.DeletePost(ctx, post.ID, other.ID)
	assert.ErrorIs(t, err, blog.ErrForbidden)

	// Record and asset both survive the rejected delete.
	_, err = env.svc.GetPost(ctx, post.ID)
	assert.NoError(t, err)
	assert.True(t, env.store.Has(post.Thumbnail.AssetID))
}

func TestPostCountNeverNegative(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")

	// Seed a post directly so the author's counter stays at zero.
	now := time.Now().UTC()
	post := &blog.Post{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       "seeded",
		Category:    blog.CategoryNews,
		Description: "seeded without counting",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, env.repo.CreatePost(ctx, post))

	require.NoError(t, env.svc.DeletePost(ctx, post.ID, author.ID))

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PostCount)
}

type capturingNotifier struct {
	received chan *blog.ContactQuery
}

func (n *capturingNotifier) ContactReceived(ctx context.Context, query *blog.ContactQuery) error {
	n.received <- query
	return nil
}

func TestSubmitContactQuery(t *testing.T) {
	notifier := &capturingNotifier{received: make(chan *blog.ContactQuery, 1)}
	env := setupService(t, blog.WithNotifier(notifier))
	ctx := context.Background()

	query, err := env.svc.SubmitContactQuery(ctx, blog.ContactRequest{
		Name:       "Asker",
		Email:      "Asker@Example.com",
		Phone:      "0123456789",
		Category:   "Support",
		Query:      "How do I reset my password?",
		Attachment: imageUpload(512),
	})
	require.NoError(t, err)

	assert.Equal(t, "asker@example.com", query.Email)
	assert.True(t, query.Attachment.Present())
	assert.True(t, env.store.Has(query.Attachment.AssetID))

	select {
	case got := <-notifier.received:
		assert.Equal(t, query.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not invoked")
	}
}

func TestSubmitContactQueryWithoutAttachment(t *testing.T) {
	env := setupService(t)

	query, err := env.svc.SubmitContactQuery(context.Background(), blog.ContactRequest{
		Name:     "Asker",
		Email:    "asker@example.com",
		Phone:    "0123456789",
		Category: "Support",
	})
	require.NoError(t, err)

	assert.False(t, query.Attachment.Present())
	assert.Equal(t, 0, env.store.Len())
}

func TestSubmitContactQueryValidation(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  blog.ContactRequest
	}{
		{
			name: "missing fields",
			req:  blog.ContactRequest{Name: "Asker", Email: "a@b.co"},
		},
		{
			name: "short phone",
			req: blog.ContactRequest{
				Name: "Asker", Email: "a@b.co", Phone: "12345", Category: "Support",
			},
		},
		{
			name: "bad email",
			req: blog.ContactRequest{
				Name: "Asker", Email: "not-an-email", Phone: "0123456789", Category: "Support",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.SubmitContactQuery(ctx, tt.req)
			assert.True(t, blog.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}
