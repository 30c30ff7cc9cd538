package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	service blog.Service
	tokens  *jwtauth.JWTAuth
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service blog.Service, tokens *jwtauth.JWTAuth, logger *slog.Logger) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{service: service, tokens: tokens, logger: logger}
}

// Routes returns the routes for posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPosts)
	r.Get("/{id}", h.GetPost)
	r.Get("/category/{category}", h.ListByCategory)
	r.Get("/author/{authorID}", h.ListByAuthor)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(h.tokens))
		r.Use(jwtauth.Authenticator)

		r.Post("/", h.CreatePost)
		r.Put("/{id}", h.EditPost)
		r.Delete("/{id}", h.DeletePost)
	})

	return r
}

// PostListResponse is the response body for post listings
type PostListResponse struct {
	Posts []*blog.Post `json:"posts"`
}

// CreatePost creates a new post from a multipart form. The thumbnail file
// field is required.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), blog.CreatePostRequest{
		AuthorID:    callerID,
		Title:       r.FormValue("title"),
		Category:    blog.Category(r.FormValue("category")),
		Description: r.FormValue("description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// GetPost retrieves a post by ID. A missing post is reported as an
// unprocessable request rather than a 404.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, ErrResponse{Error: err.Error()})
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, post)
}

// ListPosts returns all posts, most recently updated first
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, PostListResponse{Posts: posts})
}

// ListByCategory returns posts in one category, newest first
func (h *PostHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := blog.Category(chi.URLParam(r, "category"))

	posts, err := h.service.ListPostsByCategory(r.Context(), category)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, PostListResponse{Posts: posts})
}

// ListByAuthor returns posts by one author, newest first
func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(chi.URLParam(r, "authorID"))
	if err != nil {
		http.Error(w, "invalid author ID", http.StatusBadRequest)
		return
	}

	posts, err := h.service.ListPostsByAuthor(r.Context(), authorID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, PostListResponse{Posts: posts})
}

// EditPost updates a post owned by the caller. The thumbnail file field is
// optional; when present the old thumbnail is replaced.
func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.EditPost(r.Context(), blog.EditPostRequest{
		PostID:      id,
		CallerID:    callerID,
		Title:       r.FormValue("title"),
		Category:    blog.Category(r.FormValue("category")),
		Description: r.FormValue("description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), id, callerID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
