package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/policy"
	"github.com/spec-kit/expense-service/internal/repository/filestore"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, exp, err := tm.GenerateToken("user-1", domain.RoleEmployer)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d := time.Until(exp); d < 29*time.Minute || d > 31*time.Minute {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != domain.RoleEmployer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	token, _, err := tm.GenerateToken("user-1", domain.RoleEmployee)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewTokenManager("another-secret", 0)
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired := NewTokenManager("secret", 0)
	expired.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if _, err := expired.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after default ttl, got %v", err)
	}

	if _, err := tm.ParseToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the password")
	}
	if !h.Verify("hunter22", hash) {
		t.Fatal("expected password to verify")
	}
	if h.Verify("hunter23", hash) {
		t.Fatal("wrong password verified")
	}
}

type middlewareFixture struct {
	app      *fiber.App
	tokens   *TokenManager
	store    *filestore.Store
	employee *domain.User
	employer *domain.User
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	store := filestore.NewMemory()
	ctx := context.Background()
	emp := &domain.User{Email: "e@example.com", Username: "e", Role: domain.RoleEmployee}
	boss := &domain.User{Email: "b@example.com", Username: "b", Role: domain.RoleEmployer}
	for _, u := range []*domain.User{emp, boss} {
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	tokens := NewTokenManager("secret", 60)
	mw := NewAuthMiddleware(tokens, store.Users())
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		user, err := MustPrincipal(c)
		if err != nil {
			return err
		}
		return c.SendString(user.ID)
	})
	app.Get("/users", mw.Handle, RequireCapability(policy.CapManageUsers), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return &middlewareFixture{app: app, tokens: tokens, store: store, employee: emp, employer: boss}
}

func (f *middlewareFixture) do(t *testing.T, path, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func (f *middlewareFixture) bearer(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	f := newMiddlewareFixture(t)

	if got := f.do(t, "/me", ""); got != http.StatusUnauthorized {
		t.Fatalf("missing header: got %d", got)
	}
	if got := f.do(t, "/me", "Token abc"); got != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: got %d", got)
	}
	if got := f.do(t, "/me", "Bearer garbage"); got != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d", got)
	}

	ghost, _, _ := f.tokens.GenerateToken("ghost", domain.RoleEmployee)
	if got := f.do(t, "/me", "Bearer "+ghost); got != http.StatusUnauthorized {
		t.Fatalf("unknown subject: got %d", got)
	}

	if got := f.do(t, "/me", f.bearer(t, f.employee)); got != http.StatusOK {
		t.Fatalf("valid token: got %d", got)
	}
	if got := f.do(t, "/users", f.bearer(t, f.employee)); got != http.StatusForbidden {
		t.Fatalf("employee on employer route: got %d", got)
	}
	if got := f.do(t, "/users", f.bearer(t, f.employer)); got != http.StatusNoContent {
		t.Fatalf("employer on employer route: got %d", got)
	}
}

func TestAuthMiddlewareRejectsSuspendedCaller(t *testing.T) {
	f := newMiddlewareFixture(t)
	header := f.bearer(t, f.employer)

	if _, err := f.store.Users().SetSuspended(context.Background(), f.employer.ID, true); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if got := f.do(t, "/users", header); got != http.StatusForbidden {
		t.Fatalf("suspended caller: got %d", got)
	}
	if got := f.do(t, "/me", header); got != http.StatusForbidden {
		t.Fatalf("suspended caller on /me: got %d", got)
	}
}
