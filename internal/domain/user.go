package domain

import (
	"net/mail"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at signup or update.
const MinPasswordLength = 8

// User is an account. Users are their own owner: a user record is visible to
// itself and to administrators.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	IsAdmin        bool
	ExternalID     *string // IdP subject identifier (JWT `sub` claim)
	ExternalIssuer *string // Issuer URL that owns this external ID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) ResourceID() string    { return u.ID }
func (u *User) ResourceOwner() string { return u.ID }

// SignupRequest holds the fields for self-registration.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

// Validate checks that the request is well-formed and normalises the email.
func (r *SignupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	email, err := normalizeEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	return validatePassword(r.Password)
}

// SigninRequest holds credentials for password sign-in.
type SigninRequest struct {
	Email    string
	Password string
}

// Validate checks that the request is well-formed.
func (r *SigninRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrValidation("email and password are required")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return nil
}

// UpdateProfileRequest is the self-service partial update. Only the fields a
// user may change about themselves are present.
type UpdateProfileRequest struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateUserRequest is the administrator partial update.
type UpdateUserRequest struct {
	Name    *string
	Email   *string
	IsAdmin *bool
}

// ApplyProfile applies non-nil fields to u and re-validates. The password is
// returned separately because it must be hashed before it is stored.
func (r *UpdateProfileRequest) ApplyProfile(u *User) (newPassword string, err error) {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		email, err := normalizeEmail(*r.Email)
		if err != nil {
			return "", err
		}
		u.Email = email
	}
	if r.Password != nil {
		if err := validatePassword(*r.Password); err != nil {
			return "", err
		}
		newPassword = *r.Password
	}
	if u.Name == "" {
		return "", ErrValidation("name is required")
	}
	return newPassword, nil
}

// Apply applies non-nil fields to u and re-validates.
func (r *UpdateUserRequest) Apply(u *User) error {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		email, err := normalizeEmail(*r.Email)
		if err != nil {
			return err
		}
		u.Email = email
	}
	if r.IsAdmin != nil {
		u.IsAdmin = *r.IsAdmin
	}
	if u.Name == "" {
		return ErrValidation("name is required")
	}
	return nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrValidation("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", ErrValidation("email %q is not a valid address", s)
	}
	return s, nil
}

func validatePassword(p string) error {
	if len(p) < MinPasswordLength {
		return ErrValidation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
