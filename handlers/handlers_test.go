package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/search"
	"github.com/talesoul/talesoul-api/services"
)

type memoryUsers struct {
	mu   sync.Mutex
	rows []models.User
}

func (m *memoryUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, *user)
	return nil
}

func (m *memoryUsers) Save(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == user.ID {
			m.rows[i] = *user
		}
	}
	return nil
}

func (m *memoryUsers) List(context.Context, repository.UserFilter) ([]models.User, error) {
	return m.rows, nil
}

func (m *memoryUsers) Count(context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	tokens, err := auth.NewTokenService("handler-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	users := &memoryUsers{}
	authorizer := auth.NewAuthorizer(tokens, users)
	authHandler := NewAuthHandler(services.NewAuthService(users, nil, tokens, nil))
	searchHandler := NewSearchHandler(search.Disabled{})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/health", Health("test"))
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Get("/auth/me", middleware.Protected(authorizer), authHandler.Me)
	app.Get("/search/courses", searchHandler.Courses)
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id})
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, jsonRequest("POST", "/auth/register", `{"email":"not-an-email","password":"short"}`))
	if status != fiber.StatusBadRequest {
		t.Fatalf("status %d, want 400", status)
	}
	if body["status"] != "error" || body["kind"] != "bad_request" {
		t.Fatalf("unexpected error body %v", body)
	}
	fields, _ := body["errors"].(map[string]interface{})
	for _, f := range []string{"email", "password", "full_name"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing validation message for %q in %v", f, fields)
		}
	}

	status, body = do(t, app, jsonRequest("POST", "/auth/register", `{not json`))
	if status != fiber.StatusBadRequest || body["message"] != "cannot parse request body" {
		t.Fatalf("malformed body: %d %v", status, body)
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := newTestApp(t)
	register := `{"full_name":"Ada Lovelace","email":"Ada@Example.com","password":"engine-number-1"}`

	status, body := do(t, app, jsonRequest("POST", "/auth/register", register))
	if status != fiber.StatusCreated {
		t.Fatalf("register: status %d body %v", status, body)
	}
	if body["email"] != "ada@example.com" {
		t.Fatalf("email = %v, want normalized", body["email"])
	}
	if _, leaked := body["hashed_password"]; leaked {
		t.Fatal("password hash must not be serialized")
	}

	status, body = do(t, app, jsonRequest("POST", "/auth/register", register))
	if status != fiber.StatusConflict || body["kind"] != "conflict" || body["code"] != float64(409) {
		t.Fatalf("duplicate: %d %v", status, body)
	}

	status, _ = do(t, app, jsonRequest("POST", "/auth/login", `{"email":"ada@example.com","password":"nope"}`))
	if status != fiber.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", status)
	}

	form := url.Values{"username": {"ada@example.com"}, "password": {"engine-number-1"}}
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, body = do(t, app, req)
	if status != fiber.StatusOK || body["token_type"] != "bearer" {
		t.Fatalf("form login: %d %v", status, body)
	}
	token, _ := body["access_token"].(string)

	status, body = do(t, app, jsonRequest("POST", "/auth/login", `{"email":"ada@example.com","password":"engine-number-1"}`))
	if status != fiber.StatusOK || body["expires_in"] != float64(1800) {
		t.Fatalf("json login: %d %v", status, body)
	}

	req = httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body = do(t, app, req)
	if status != fiber.StatusOK || body["full_name"] != "Ada Lovelace" {
		t.Fatalf("me: %d %v", status, body)
	}

	status, body = do(t, app, httptest.NewRequest("GET", "/auth/me", nil))
	if status != fiber.StatusUnauthorized || body["kind"] != "unauthenticated" {
		t.Fatalf("anonymous me: %d %v", status, body)
	}
}

func TestErrorRendering(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, httptest.NewRequest("GET", "/search/courses?q=go", nil))
	if status != fiber.StatusServiceUnavailable || body["kind"] != "unavailable" {
		t.Fatalf("disabled search: %d %v", status, body)
	}

	status, body = do(t, app, httptest.NewRequest("GET", "/items/abc", nil))
	if status != fiber.StatusBadRequest || body["message"] != "invalid id" {
		t.Fatalf("bad id: %d %v", status, body)
	}

	status, body = do(t, app, httptest.NewRequest("GET", "/no-such-route", nil))
	if status != fiber.StatusNotFound || body["kind"] != "not_found" {
		t.Fatalf("unknown route: %d %v", status, body)
	}

	status, body = do(t, app, httptest.NewRequest("GET", "/health", nil))
	if status != fiber.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", status, body)
	}
}
