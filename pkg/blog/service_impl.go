package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

// Payload ceilings in bytes.
const (
	MaxThumbnailBytes  = 2000000
	MaxAvatarBytes     = 500000
	MaxAttachmentBytes = 2000000
)

// Default durations; both are overridable with options.
const (
	DefaultSessionTTL    = 7 * 24 * time.Hour
	DefaultUploadTimeout = 30 * time.Second
)

// service implements the Service interface
type service struct {
	repo          Repository
	blobs         BlobStore
	notifier      Notifier
	tokens        *jwtauth.JWTAuth
	logger        *slog.Logger
	sessionTTL    time.Duration
	uploadTimeout time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the record repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithNotifier sets the outbound notifier
func WithNotifier(n Notifier) Option {
	return func(s *service) {
		s.notifier = n
	}
}

// WithTokenAuth sets the signer/verifier used for session credentials
func WithTokenAuth(ja *jwtauth.JWTAuth) Option {
	return func(s *service) {
		s.tokens = ja
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithSessionTTL sets the lifetime of minted session credentials
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.sessionTTL = ttl
	}
}

// WithUploadTimeout bounds every single blob store call
func WithUploadTimeout(d time.Duration) Option {
	return func(s *service) {
		s.uploadTimeout = d
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		sessionTTL:    DefaultSessionTTL,
		uploadTimeout: DefaultUploadTimeout,
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.tokens == nil {
		return nil, fmt.Errorf("token auth is required")
	}
	if s.notifier == nil {
		s.notifier = NewNoopNotifier()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.Title == "" || req.Category == "" || req.Description == "" || req.Thumbnail == nil {
		return nil, invalid("Fill all the fields and choose thumbnail")
	}
	if !req.Category.IsValid() {
		return nil, invalid(fmt.Sprintf("Unknown category %q", string(req.Category)))
	}

	asset, err := s.attachAsset(ctx, req.Thumbnail, MaxThumbnailBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          uuid.New(),
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Thumbnail:   Attachment{AssetID: asset.ID, URL: asset.URL},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		// The uploaded asset is now orphaned; reconciliation is a separate
		// concern, so log it and report the write failure.
		s.logger.Warn("post create failed after upload, asset orphaned",
			"asset_id", asset.ID, "author_id", req.AuthorID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	if err := s.adjustPostCount(ctx, req.AuthorID, +1); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *service) ListPosts(ctx context.Context) ([]*Post, error) {
	return s.repo.ListPosts(ctx)
}

func (s *service) ListPostsByCategory(ctx context.Context, category Category) ([]*Post, error) {
	return s.repo.ListPostsByCategory(ctx, category)
}

func (s *service) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error) {
	return s.repo.ListPostsByAuthor(ctx, authorID)
}

func (s *service) EditPost(ctx context.Context, req EditPostRequest) (*Post, error) {
	if req.Title == "" || req.Category == "" || req.Description == "" {
		return nil, invalid("Fill all the fields")
	}
	if len(req.Description) < 12 {
		return nil, invalid("Description must be at least 12 characters long")
	}
	if !req.Category.IsValid() {
		return nil, invalid(fmt.Sprintf("Unknown category %q", string(req.Category)))
	}

	post, err := s.repo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != req.CallerID {
		return nil, ErrForbidden
	}

	post.Title = req.Title
	post.Category = req.Category
	post.Description = req.Description

	if req.Thumbnail != nil {
		asset, err := s.replaceAsset(ctx, post.Thumbnail, req.Thumbnail, MaxThumbnailBytes)
		if err != nil {
			return nil, err
		}
		post.Thumbnail = Attachment{AssetID: asset.ID, URL: asset.URL}
	}

	post.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	return post, nil
}

func (s *service) DeletePost(ctx context.Context, postID, callerID uuid.UUID) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrForbidden
	}

	// Asset first: if the blob store refuses, keep the record so the asset is
	// never left without its only pointer.
	if err := s.detachAsset(ctx, post.Thumbnail.AssetID); err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	return s.adjustPostCount(ctx, post.AuthorID, -1)
}

// Contact operations

func (s *service) SubmitContactQuery(ctx context.Context, req ContactRequest) (*ContactQuery, error) {
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Category == "" {
		return nil, invalid("Fill all the fields")
	}
	if len(req.Phone) < 10 {
		return nil, invalid("Please enter valid phone number")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, invalid("Invalid email format")
	}

	var attachment Attachment
	if req.Attachment != nil {
		asset, err := s.attachAsset(ctx, req.Attachment, MaxAttachmentBytes)
		if err != nil {
			return nil, err
		}
		attachment = Attachment{AssetID: asset.ID, URL: asset.URL}
	}

	query := &ContactQuery{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Phone:      req.Phone,
		Category:   req.Category,
		Query:      req.Query,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateContactQuery(ctx, query); err != nil {
		if attachment.Present() {
			s.logger.Warn("contact create failed after upload, asset orphaned",
				"asset_id", attachment.AssetID, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	// Best effort, non-blocking: notification failures are logged, never
	// surfaced to the submitter.
	go func(q *ContactQuery) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.ContactReceived(ctx, q); err != nil {
			s.logger.Error("contact notification failed", "query_id", q.ID, "error", err)
		}
	}(query)

	return query, nil
}
