package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements blog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Account operations

func (r *Repository) CreateAccount(ctx context.Context, account *blog.Account) error {
	query := `
		INSERT INTO accounts (
			id, name, email, password_hash, avatar_asset_id, avatar_url,
			post_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.Avatar.AssetID, account.Avatar.URL,
		account.PostCount, account.CreatedAt, account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return blog.ErrEmailTaken
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*blog.Account, error) {
	query := `
		SELECT id, name, email, password_hash, avatar_asset_id, avatar_url,
		       post_count, created_at, updated_at
		FROM accounts WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*blog.Account, error) {
	query := `
		SELECT id, name, email, password_hash, avatar_asset_id, avatar_url,
		       post_count, created_at, updated_at
		FROM accounts WHERE email = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *Repository) scanAccount(row pgx.Row) (*blog.Account, error) {
	var account blog.Account
	err := row.Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash,
		&account.Avatar.AssetID, &account.Avatar.URL,
		&account.PostCount, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account *blog.Account) error {
	query := `
		UPDATE accounts SET
			name = $2, email = $3, password_hash = $4, avatar_asset_id = $5,
			avatar_url = $6, post_count = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.Avatar.AssetID, account.Avatar.URL,
		account.PostCount, account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return blog.ErrEmailTaken
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrAccountNotFound
	}

	return nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *blog.Post) error {
	query := `
		INSERT INTO posts (
			id, author_id, title, category, description,
			thumbnail_asset_id, thumbnail_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Category, post.Description,
		post.Thumbnail.AssetID, post.Thumbnail.URL, post.CreatedAt, post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	query := `
		SELECT id, author_id, title, category, description,
		       thumbnail_asset_id, thumbnail_url, created_at, updated_at
		FROM posts WHERE id = $1`

	var post blog.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Category, &post.Description,
		&post.Thumbnail.AssetID, &post.Thumbnail.URL, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrPostNotFound
		}
		return nil, err
	}

	return &post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *blog.Post) error {
	query := `
		UPDATE posts SET
			title = $2, category = $3, description = $4,
			thumbnail_asset_id = $5, thumbnail_url = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Category, post.Description,
		post.Thumbnail.AssetID, post.Thumbnail.URL, post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	query := `
		SELECT id, author_id, title, category, description,
		       thumbnail_asset_id, thumbnail_url, created_at, updated_at
		FROM posts ORDER BY updated_at DESC`

	return r.queryPosts(ctx, query)
}

func (r *Repository) ListPostsByCategory(ctx context.Context, category blog.Category) ([]*blog.Post, error) {
	query := `
		SELECT id, author_id, title, category, description,
		       thumbnail_asset_id, thumbnail_url, created_at, updated_at
		FROM posts WHERE category = $1 ORDER BY created_at DESC`

	return r.queryPosts(ctx, query, category)
}

func (r *Repository) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*blog.Post, error) {
	query := `
		SELECT id, author_id, title, category, description,
		       thumbnail_asset_id, thumbnail_url, created_at, updated_at
		FROM posts WHERE author_id = $1 ORDER BY created_at DESC`

	return r.queryPosts(ctx, query, authorID)
}

func (r *Repository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*blog.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*blog.Post
	for rows.Next() {
		var post blog.Post
		if err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Category, &post.Description,
			&post.Thumbnail.AssetID, &post.Thumbnail.URL, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}

// Contact operations

func (r *Repository) CreateContactQuery(ctx context.Context, contact *blog.ContactQuery) error {
	query := `
		INSERT INTO contact_queries (
			id, name, email, phone, category, query,
			attachment_asset_id, attachment_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone,
		contact.Category, contact.Query,
		contact.Attachment.AssetID, contact.Attachment.URL, contact.CreatedAt)

	if err != nil {
		return fmt.Errorf("create contact query: %w", err)
	}

	return nil
}
