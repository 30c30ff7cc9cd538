package blog_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// countingStore tracks blob store calls and can be told to fail them.
type countingStore struct {
	mu           sync.Mutex
	uploads      int
	deletes      int
	failUpload   bool
	failDelete   bool
	deleteIsMiss bool
}

func (s *countingStore) Upload(ctx context.Context, reader io.Reader, params blog.UploadParams) (*blog.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++

	if s.failUpload {
		return nil, errors.New("store unavailable")
	}

	id := uuid.New().String()
	return &blog.Asset{ID: id, URL: fmt.Sprintf("fake://%s", id)}, nil
}

func (s *countingStore) Delete(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++

	if s.deleteIsMiss {
		return blog.ErrAssetNotFound
	}
	if s.failDelete {
		return errors.New("store unavailable")
	}
	return nil
}

func (s *countingStore) counts() (uploads, deletes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads, s.deletes
}

// flakyRepo delegates to a real repository but can fail selected writes.
type flakyRepo struct {
	blog.Repository
	failCreatePost    bool
	failCreateContact bool
}

func (r *flakyRepo) CreatePost(ctx context.Context, post *blog.Post) error {
	if r.failCreatePost {
		return errors.New("connection reset")
	}
	return r.Repository.CreatePost(ctx, post)
}

func (r *flakyRepo) CreateContactQuery(ctx context.Context, query *blog.ContactQuery) error {
	if r.failCreateContact {
		return errors.New("connection reset")
	}
	return r.Repository.CreateContactQuery(ctx, query)
}

func TestOversizePayloadNeverReachesStore(t *testing.T) {
	store := &countingStore{}
	env := setupService(t, blog.WithBlobStore(store))
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")

	_, err := env.svc.CreatePost(ctx, blog.CreatePostRequest{
		AuthorID:    author.ID,
		Title:       "big thumbnail",
		Category:    blog.CategoryNews,
		Description: "payload over the limit",
		Thumbnail:   imageUpload(blog.MaxThumbnailBytes + 1),
	})
	assert.ErrorIs(t, err, blog.ErrPayloadTooLarge)

	uploads, deletes := store.counts()
	assert.Equal(t, 0, uploads)
	assert.Equal(t, 0, deletes)
}

func TestUploadFailureAbortsCreate(t *testing.T) {
	store := &countingStore{failUpload: true}
	env := setupService(t, blog.WithBlobStore(store))
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")

	_, err := env.svc.CreatePost(ctx, blog.CreatePostRequest{
		AuthorID:    author.ID,
		Title:       "doomed",
		Category:    blog.CategoryNews,
		Description: "upload will fail",
		Thumbnail:   imageUpload(100),
	})
	assert.ErrorIs(t, err, blog.ErrUploadFailed)

	posts, err := env.svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PostCount)
}

func TestReplaceSkipsUploadWhenDeleteFails(t *testing.T) {
	store := &countingStore{}
	env := setupService(t, blog.WithBlobStore(store))
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	store.mu.Lock()
	store.failDelete = true
	store.mu.Unlock()

	_, err := env.svc.EditPost(ctx, blog.EditPostRequest{
		PostID:      post.ID,
		CallerID:    author.ID,
		Title:       "replacement attempt",
		Category:    post.Category,
		Description: "this edit should not go through",
		Thumbnail:   imageUpload(100),
	})
	assert.ErrorIs(t, err, blog.ErrAssetDeleteFailed)

	// Only the original create uploaded anything.
	uploads, _ := store.counts()
	assert.Equal(t, 1, uploads)

	// The record still points at the old attachment.
	got, err := env.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Thumbnail, got.Thumbnail)
	assert.Equal(t, post.Title, got.Title)
}

func TestDeleteFailurePreservesRecord(t *testing.T) {
	store := &countingStore{}
	env := setupService(t, blog.WithBlobStore(store))
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	store.mu.Lock()
	store.failDelete = true
	store.mu.Unlock()

	err := env.svc.DeletePost(ctx, post.ID, author.ID)
	assert.ErrorIs(t, err, blog.ErrAssetDeleteFailed)

	_, err = env.svc.GetPost(ctx, post.ID)
	assert.NoError(t, err)

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.PostCount)
}

func TestDeleteToleratesMissingAsset(t *testing.T) {
	store := &countingStore{}
	env := setupService(t, blog.WithBlobStore(store))
	ctx := context.Background()
	author := registerAccount(t, env.svc, "author@example.com")
	post := createTestPost(t, env, author.ID)

	store.mu.Lock()
	store.deleteIsMiss = true
	store.mu.Unlock()

	require.NoError(t, env.svc.DeletePost(ctx, post.ID, author.ID))

	_, err := env.svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, blog.ErrPostNotFound)

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PostCount)
}

func TestCreatePostRecordFailureOrphansAsset(t *testing.T) {
	base := setupService(t)
	repo := &flakyRepo{Repository: base.repo, failCreatePost: true}
	env := setupService(t, blog.WithRepository(repo), blog.WithBlobStore(base.store))
	ctx := context.Background()

	author := registerAccount(t, env.svc, "author@example.com")

	_, err := env.svc.CreatePost(ctx, blog.CreatePostRequest{
		AuthorID:    author.ID,
		Title:       "will not persist",
		Category:    blog.CategoryNews,
		Description: "record write is going to fail",
		Thumbnail:   imageUpload(100),
	})
	assert.ErrorIs(t, err, blog.ErrRecordWriteFailed)

	// The upload already happened; the asset is orphaned, not rolled back.
	assert.Equal(t, 1, base.store.Len())

	profile, err := env.svc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PostCount)
}

func TestContactRecordFailureOrphansAttachment(t *testing.T) {
	base := setupService(t)
	repo := &flakyRepo{Repository: base.repo, failCreateContact: true}
	env := setupService(t, blog.WithRepository(repo), blog.WithBlobStore(base.store))

	_, err := env.svc.SubmitContactQuery(context.Background(), blog.ContactRequest{
		Name:       "Asker",
		Email:      "asker@example.com",
		Phone:      "0123456789",
		Category:   "Support",
		Attachment: imageUpload(100),
	})
	assert.ErrorIs(t, err, blog.ErrRecordWriteFailed)
	assert.Equal(t, 1, base.store.Len())
}
