package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// ContactHandler handles HTTP requests for contact queries
type ContactHandler struct {
	service blog.Service
	logger  *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(service blog.Service, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{service: service, logger: logger}
}

// Routes returns the routes for contact queries
func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.SubmitQuery)

	return r
}

// SubmitQuery accepts a contact form submission. The attachment file field
// is optional.
func (h *ContactHandler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	attachment, err := formUpload(r, "attachment")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query, err := h.service.SubmitContactQuery(r.Context(), blog.ContactRequest{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("phone"),
		Category:   r.FormValue("category"),
		Query:      r.FormValue("query"),
		Attachment: attachment,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, query)
}
