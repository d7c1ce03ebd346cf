package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/events"
	"github.com/spec-kit/expense-service/internal/policy"
	"github.com/spec-kit/expense-service/internal/repository"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts passwords up to 72 bytes
	maxPasswordLength = 72
)

// PasswordHasher is the credential primitive used by AuthService.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashed string) bool
}

// TokenIssuer signs session tokens carrying the subject id and role.
type TokenIssuer interface {
	GenerateToken(subjectID string, role domain.Role) (string, time.Time, error)
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     PasswordHasher
	Tokens     TokenIssuer
	Dispatcher events.Dispatcher
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
	}
}

// Register creates a new account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Session, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", map[string]any{"field": "password"})
	}
	if len(input.Password) > maxPasswordLength {
		return nil, apperrors.NewValidationError("password must be at most 72 bytes", map[string]any{"field": "password", "max": maxPasswordLength})
	}
	if username == "" {
		return nil, apperrors.NewValidationError("username required", map[string]any{"field": "username"})
	}
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{
			"field":   "role",
			"allowed": []domain.Role{domain.RoleEmployee, domain.RoleEmployer},
		})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewEmailExists()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration for the same email
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperrors.NewEmailExists()
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Actor:     actorOf(user),
		Payload:   userPayload(user),
	})
	return s.issue(user)
}

// Login authenticates a user by email and password. Suspended accounts are refused.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if len(password) > maxPasswordLength {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, err
	}
	if err := policy.CheckActive(user); err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	return s.issue(user)
}

// Me returns the caller's current record.
func (s *AuthService) Me(ctx context.Context, caller *domain.User) (*domain.User, error) {
	if err := policy.CheckActive(caller); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*domain.Session, error) {
	token, exp, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.NewValidationError("email required", map[string]any{"field": "email"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	return nil
}
