package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash is a throwaway bcrypt hash compared against when login hits an
// unknown email, so response timing does not reveal whether the account
// exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Register validates and persists a new account. The stored password is a
// bcrypt hash; the plaintext is never persisted.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, invalid("Please fill all the fields")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, invalid("Invalid email format")
	}

	email := strings.ToLower(req.Email)
	if _, err := s.repo.GetAccountByEmail(ctx, email); err == nil {
		return nil, invalid("Email already exists")
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, invalid("Password must be at least 6 characters long")
	}
	if req.Password != req.ConfirmPassword {
		return nil, invalid("Passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	account := &Account{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		PostCount:    0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// Lost the race against a concurrent registration.
			return nil, invalid("Email already exists")
		}
		return nil, err
	}

	return account, nil
}

// Login verifies credentials and mints a session credential valid for the
// configured TTL. Unknown email and wrong password are indistinguishable to
// the caller.
func (s *service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	if email == "" || password == "" {
		return nil, "", invalid("Please fill all the fields")
	}

	account, err := s.repo.GetAccountByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.mintSession(account.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// GetProfile returns an account by id. The password hash is excluded from
// serialization by the Account type itself.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// EditAccount updates name, email and password in one call. The current
// password must verify, and the new email must not belong to another account.
func (s *service) EditAccount(ctx context.Context, req EditAccountRequest) (*Account, error) {
	if req.Name == "" || req.Email == "" || req.CurrentPassword == "" ||
		req.NewPassword == "" || req.ConfirmNewPassword == "" {
		return nil, invalid("Please fill all the fields")
	}

	account, err := s.repo.GetAccount(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	email := strings.ToLower(req.Email)
	if other, err := s.repo.GetAccountByEmail(ctx, email); err == nil && other.ID != account.ID {
		return nil, invalid("Email already exists")
	} else if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return nil, invalid("Invalid current password")
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return nil, invalid("New passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account.Name = req.Name
	account.Email = email
	account.PasswordHash = string(hash)
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, invalid("Email already exists")
		}
		return nil, err
	}

	return account, nil
}

// ChangeAvatar replaces the account's avatar asset: the previous asset is
// deleted first, then the new payload is uploaded and the account updated.
func (s *service) ChangeAvatar(ctx context.Context, accountID uuid.UUID, avatar *Upload) (*Account, error) {
	if avatar == nil || avatar.Size() == 0 {
		return nil, invalid("Please choose an image")
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	asset, err := s.replaceAsset(ctx, account.Avatar, avatar, MaxAvatarBytes)
	if err != nil {
		return nil, err
	}

	account.Avatar = Attachment{AssetID: asset.ID, URL: asset.URL}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		s.logger.Warn("avatar update failed after upload, asset orphaned",
			"asset_id", asset.ID, "account_id", accountID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	return account, nil
}

func (s *service) mintSession(accountID uuid.UUID) (string, error) {
	claims := map[string]interface{}{
		"account_id": accountID.String(),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, s.sessionTTL)

	_, token, err := s.tokens.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("signing session credential: %w", err)
	}
	return token, nil
}
