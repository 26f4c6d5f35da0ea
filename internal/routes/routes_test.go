package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/utils"
)

// newTestApp wires the full route table without a database. Requests in
// these tests stop at the guard or at request validation, before any
// handler touches storage.
func newTestApp() *fiber.App {
	app := fiber.New()
	Register(app, nil, &config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		Currency:      "UZS",
	})
	return app
}

type redirectResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

func decodeRedirect(t *testing.T, resp *http.Response) redirectResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out redirectResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return out
}

func TestAdminLoginReachableWithoutSession(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	// The login handler must run and reject the empty credentials itself;
	// a 401 here would mean the session guard fired before it.
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 from the login handler, got %d", resp.StatusCode)
	}
}

func TestCustomerLoginReachableWithoutSession(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 from the login handler, got %d", resp.StatusCode)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/api/auth/logout", "/api/admin/auth/logout"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "garbage"})

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200 regardless of cookie state, got %d", path, resp.StatusCode)
		}
	}
}

func TestCustomerRoutesStillGuarded(t *testing.T) {
	paths := []string{"/api/wishlist", "/api/orders", "/api/profile"}

	for _, path := range paths {
		app := newTestApp()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, resp.StatusCode)
			continue
		}
		if out := decodeRedirect(t, resp); out.Redirect != "/login" {
			t.Errorf("%s: expected redirect /login, got %q", path, out.Redirect)
		}
	}
}

func TestAdminRoutesStillGuarded(t *testing.T) {
	paths := []string{"/api/admin/stats", "/api/admin/orders", "/api/admin/users"}

	for _, path := range paths {
		app := newTestApp()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("app.Test %s: %v", path, err)
		}

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, resp.StatusCode)
			continue
		}
		if out := decodeRedirect(t, resp); out.Redirect != "/admin/login" {
			t.Errorf("%s: expected redirect /admin/login, got %q", path, out.Redirect)
		}
	}
}

func TestHealthIsOpen(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
