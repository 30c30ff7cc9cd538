package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// AuthHandler handles HTTP requests for accounts and sessions
type AuthHandler struct {
	service    blog.Service
	tokens     *jwtauth.JWTAuth
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service blog.Service, tokens *jwtauth.JWTAuth, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = blog.DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service:    service,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Routes returns the routes for accounts and sessions
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/users/{id}", h.GetAccount)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(h.tokens))
		r.Use(jwtauth.Authenticator)

		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.EditProfile)
		r.Put("/profile/avatar", h.ChangeAvatar)
	})

	return r
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the response body for a successful login
type SessionResponse struct {
	Token   string        `json:"token"`
	Account *blog.Account `json:"account"`
}

// EditProfileRequest is the request body for updating an account
type EditProfileRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// Register creates a new account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.service.Register(r.Context(), blog.RegisterRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, account)
}

// Login verifies credentials and issues a session token. The token is
// returned in the body and also set as an http-only cookie, which the
// jwtauth verifier picks up on subsequent requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	render.JSON(w, r, SessionResponse{Token: token, Account: account})
}

// GetAccount returns a public view of any account by id
func (h *AuthHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid account ID", http.StatusBadRequest)
		return
	}

	account, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, account)
}

// GetProfile returns the authenticated caller's account
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	account, err := h.service.GetProfile(r.Context(), callerID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, account)
}

// EditProfile updates the caller's name, email and password
func (h *AuthHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	var req EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.service.EditAccount(r.Context(), blog.EditAccountRequest{
		AccountID:          callerID,
		Name:               req.Name,
		Email:              req.Email,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, account)
}

// ChangeAvatar replaces the caller's avatar with the uploaded file
func (h *AuthHandler) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	callerID, err := accountID(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	avatar, err := formUpload(r, "avatar")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.service.ChangeAvatar(r.Context(), callerID, avatar)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, account)
}
