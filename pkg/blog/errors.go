package blog

import "errors"

// Error types
var (
	// ErrAccountNotFound indicates an account was not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrEmailTaken indicates the email address is already registered
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password, deliberately undifferentiated
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden indicates the caller does not own the targeted record
	ErrForbidden = errors.New("operation not permitted")

	// ErrPayloadTooLarge indicates a payload exceeds its configured ceiling
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUploadFailed indicates a blob store upload failed
	ErrUploadFailed = errors.New("upload failed")

	// ErrAssetDeleteFailed indicates a blob store delete failed
	ErrAssetDeleteFailed = errors.New("asset delete failed")

	// ErrAssetNotFound is returned by blob stores when the asset is already
	// gone; detach treats it as success
	ErrAssetNotFound = errors.New("asset not found")

	// ErrRecordWriteFailed indicates a record store write failed after the
	// blob-side step already succeeded
	ErrRecordWriteFailed = errors.New("record write failed")
)

// ValidationError reports rejected input. The message is safe to show to the
// caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
