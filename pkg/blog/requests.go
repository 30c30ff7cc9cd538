package blog

import "github.com/google/uuid"

// Upload is an in-memory file payload handed to the service. A nil *Upload
// means "no file supplied".
type Upload struct {
	Data     []byte
	FileName string
	MimeType string
}

// Size returns the payload size in bytes.
func (u *Upload) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}

// RegisterRequest contains parameters for registering an account.
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// EditAccountRequest contains parameters for updating an account's profile
// and password. All fields are required.
type EditAccountRequest struct {
	AccountID          uuid.UUID
	Name               string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// CreatePostRequest contains parameters for creating a post. Thumbnail is
// required.
type CreatePostRequest struct {
	AuthorID    uuid.UUID
	Title       string
	Category    Category
	Description string
	Thumbnail   *Upload
}

// EditPostRequest contains parameters for editing a post. A nil Thumbnail
// leaves the existing attachment untouched.
type EditPostRequest struct {
	PostID      uuid.UUID
	CallerID    uuid.UUID
	Title       string
	Category    Category
	Description string
	Thumbnail   *Upload
}

// ContactRequest contains parameters for submitting a contact query. The
// attachment is optional.
type ContactRequest struct {
	Name       string
	Email      string
	Phone      string
	Category   string
	Query      string
	Attachment *Upload
}
