package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
)

type accounts map[uint]*models.User

func (a accounts) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := a[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newApp(t *testing.T) (*fiber.App, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("middleware-secret", "HS256", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	authorizer := auth.NewAuthorizer(tokens, accounts{
		1: {ID: 1, Email: "user@test.io", Role: models.RoleUser, IsActive: true},
		2: {ID: 2, Email: "admin@test.io", Role: models.RoleAdmin, IsActive: true},
		3: {ID: 3, Email: "off@test.io", Role: models.RoleUser, IsActive: false},
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperror.HTTPStatus(apperror.KindOf(err))).SendString(err.Error())
		},
	})
	whoami := func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u != nil {
			return c.SendString(u.Email)
		}
		return c.SendString("anonymous")
	}
	app.Get("/me", Protected(authorizer), whoami)
	app.Get("/maybe", OptionalAuth(authorizer), whoami)
	app.Get("/admin", Protected(authorizer), AdminRequired(), whoami)
	return app, tokens
}

func bearer(t *testing.T, tokens *auth.TokenService, id uint, role models.Role, ttl time.Duration) string {
	t.Helper()
	tok, _, err := tokens.Issue("someone@test.io", id, role, ttl)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func TestProtected(t *testing.T) {
	app, tokens := newApp(t)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", fiber.StatusUnauthorized},
		{"valid", bearer(t, tokens, 1, models.RoleUser, time.Minute), fiber.StatusOK},
		{"unknown account", bearer(t, tokens, 42, models.RoleUser, time.Minute), fiber.StatusUnauthorized},
		{"inactive account", bearer(t, tokens, 3, models.RoleUser, time.Minute), fiber.StatusForbidden},
	}
	for _, tc := range cases {
		if got := call(t, app, "/me", tc.header); got != tc.want {
			t.Errorf("%s: status %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestProtectedRejectsOtherSecret(t *testing.T) {
	app, _ := newApp(t)
	other, _ := auth.NewTokenService("another-secret", "HS256", time.Minute)
	if got := call(t, app, "/me", bearer(t, other, 1, models.RoleUser, time.Minute)); got != fiber.StatusUnauthorized {
		t.Fatalf("status %d, want 401", got)
	}
}

func TestOptionalAuth(t *testing.T) {
	app, tokens := newApp(t)
	if got := call(t, app, "/maybe", ""); got != fiber.StatusOK {
		t.Fatalf("anonymous: status %d, want 200", got)
	}
	if got := call(t, app, "/maybe", bearer(t, tokens, 1, models.RoleUser, time.Minute)); got != fiber.StatusOK {
		t.Fatalf("authenticated: status %d, want 200", got)
	}
	if got := call(t, app, "/maybe", "Bearer broken"); got != fiber.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", got)
	}
}

func TestAdminRequired(t *testing.T) {
	app, tokens := newApp(t)
	if got := call(t, app, "/admin", bearer(t, tokens, 1, models.RoleUser, time.Minute)); got != fiber.StatusForbidden {
		t.Fatalf("user: status %d, want 403", got)
	}
	if got := call(t, app, "/admin", bearer(t, tokens, 2, models.RoleAdmin, time.Minute)); got != fiber.StatusOK {
		t.Fatalf("admin: status %d, want 200", got)
	}
}

func TestRateLimitWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimit(nil, "login", 1, time.Minute), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		if err != nil || resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("request %d: %v %v", i, resp, err)
		}
	}
}
