package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// Repository implements blog.Repository using in-memory storage
type Repository struct {
	mu              sync.RWMutex
	accounts        map[uuid.UUID]*blog.Account
	accountsByEmail map[string]uuid.UUID
	posts           map[uuid.UUID]*blog.Post
	contacts        map[uuid.UUID]*blog.ContactQuery
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		accounts:        make(map[uuid.UUID]*blog.Account),
		accountsByEmail: make(map[string]uuid.UUID),
		posts:           make(map[uuid.UUID]*blog.Post),
		contacts:        make(map[uuid.UUID]*blog.ContactQuery),
	}
}

// Account operations

func (r *Repository) CreateAccount(ctx context.Context, account *blog.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := r.accountsByEmail[email]; exists {
		return blog.ErrEmailTaken
	}

	// Create a copy to avoid external modifications
	accountCopy := *account
	r.accounts[account.ID] = &accountCopy
	r.accountsByEmail[email] = account.ID

	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*blog.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, blog.ErrAccountNotFound
	}

	accountCopy := *account
	return &accountCopy, nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*blog.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.accountsByEmail[strings.ToLower(email)]
	if !exists {
		return nil, blog.ErrAccountNotFound
	}

	accountCopy := *r.accounts[id]
	return &accountCopy, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account *blog.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.accounts[account.ID]
	if !exists {
		return blog.ErrAccountNotFound
	}

	email := strings.ToLower(account.Email)
	if email != strings.ToLower(existing.Email) {
		if other, taken := r.accountsByEmail[email]; taken && other != account.ID {
			return blog.ErrEmailTaken
		}
		delete(r.accountsByEmail, strings.ToLower(existing.Email))
		r.accountsByEmail[email] = account.ID
	}

	accountCopy := *account
	r.accounts[account.ID] = &accountCopy

	return nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *blog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Author must exist; posts always carry a valid owner reference
	if _, exists := r.accounts[post.AuthorID]; !exists {
		return blog.ErrAccountNotFound
	}

	postCopy := *post
	r.posts[post.ID] = &postCopy

	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, blog.ErrPostNotFound
	}

	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *blog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; !exists {
		return blog.ErrPostNotFound
	}

	postCopy := *post
	r.posts[post.ID] = &postCopy

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return blog.ErrPostNotFound
	}

	delete(r.posts, id)
	return nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*blog.Post, 0, len(r.posts))
	for _, post := range r.posts {
		postCopy := *post
		result = append(result, &postCopy)
	}

	// Sort by updated_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *Repository) ListPostsByCategory(ctx context.Context, category blog.Category) ([]*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*blog.Post
	for _, post := range r.posts {
		if post.Category == category {
			postCopy := *post
			result = append(result, &postCopy)
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*blog.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			postCopy := *post
			result = append(result, &postCopy)
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Contact operations

func (r *Repository) CreateContactQuery(ctx context.Context, query *blog.ContactQuery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queryCopy := *query
	r.contacts[query.ID] = &queryCopy

	return nil
}
