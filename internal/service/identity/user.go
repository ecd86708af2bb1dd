package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// Session is the result of a successful signup or signin.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserService manages accounts.
type UserService struct {
	users    domain.UserRepository
	audit    domain.AuditRepository
	guard    *access.Guard
	tokens   *TokenIssuer
	hashCost int
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, audit domain.AuditRepository, guard *access.Guard, tokens *TokenIssuer) *UserService {
	return &UserService{users: users, audit: audit, guard: guard, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

var errBadCredentials = domain.ErrUnauthenticated("invalid email or password")

// Signup registers a new non-admin account and signs it in.
func (s *UserService) Signup(ctx context.Context, req domain.SignupRequest) (*Session, error) {
	u, err := s.CreateAccount(ctx, req, false)
	if err != nil {
		return nil, err
	}
	auditutil.LogAllowed(ctx, s.audit, u.ID, "signup", access.User.Name, u.ID, "")
	return s.session(u)
}

// CreateAccount stores a new account. It performs no authorization and is
// meant for signup, seeding and the operator CLI.
func (s *UserService) CreateAccount(ctx context.Context, req domain.SignupRequest, isAdmin bool) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	})
}

// Signin checks a password and returns a fresh token. Unknown email and
// wrong password are indistinguishable.
func (s *UserService) Signin(ctx context.Context, req domain.SigninRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, errBadCredentials
	}
	return s.session(u)
}

func (s *UserService) session(u *domain.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context) (*domain.User, error) {
	return access.Load(ctx, s.guard, access.User, access.OpRead, auditutil.Caller(ctx), s.users.GetByID)
}

// UpdateProfile applies a self-service update to the caller's account.
func (s *UserService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := access.Load(ctx, s.guard, access.User, access.OpUpdate, auditutil.Caller(ctx), s.users.GetByID)
	if err != nil {
		return nil, err
	}
	password, err := req.ApplyProfile(u)
	if err != nil {
		return nil, err
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	out, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, "update_profile", access.User.Name, u.ID, "")
	return out, nil
}

// Get returns an account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return access.Load(ctx, s.guard, access.User, access.OpRead, id, s.users.GetByID)
}

// List returns all accounts. Administrators only.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	scope, err := s.guard.Scope(ctx, access.User, false)
	if err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, scope, page)
}

// Update applies an account update. Only administrators may change the
// admin flag.
func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	u, err := access.Load(ctx, s.guard, access.User, access.OpUpdate, id, s.users.GetByID)
	if err != nil {
		return nil, err
	}
	if req.IsAdmin != nil && *req.IsAdmin != u.IsAdmin {
		if p, _ := domain.PrincipalFromContext(ctx); !p.IsAdmin {
			return nil, domain.ErrAccessDenied("administrator privileges required to change is_admin")
		}
	}
	if err := req.Apply(u); err != nil {
		return nil, err
	}
	out, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpUpdate), access.User.Name, id, fmt.Sprintf("is_admin=%t", out.IsAdmin))
	return out, nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := access.Load(ctx, s.guard, access.User, access.OpDelete, id, s.users.GetByID)
	if err != nil {
		return err
	}
	if u.ID == auditutil.Caller(ctx) {
		return domain.ErrValidation("administrators cannot delete their own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.User.Name, id, "")
	return nil
}
