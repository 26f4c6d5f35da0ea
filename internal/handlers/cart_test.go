package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

func cartTestConfig() *config.Config {
	return &config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		Currency:      "UZS",
	}
}

func newCartApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New()
	h := NewCartHandler(db, cfg)
	cart := app.Group("/api/cart", middleware.OptionalSession(cfg))
	cart.Get("/", h.Get)
	cart.Post("/items", h.AddItem)
	cart.Put("/items/:productId", h.UpdateItem)
	cart.Delete("/items/:productId", h.RemoveItem)
	cart.Delete("/", h.Clear)
	return app
}

type cartResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Lines []struct {
			ProductID uuid.UUID `json:"product_id"`
			Quantity  int       `json:"quantity"`
		} `json:"lines"`
		ItemCount int `json:"item_count"`
	} `json:"data"`
}

func decodeCartResponse(t *testing.T, resp *http.Response) cartResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out cartResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return out
}

func lineQuantities(resp cartResponse) map[uuid.UUID]int {
	got := make(map[uuid.UUID]int, len(resp.Data.Lines))
	for _, line := range resp.Data.Lines {
		got[line.ProductID] = line.Quantity
	}
	return got
}

func cartTokenCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == cartTokenCookieName {
			return cookie
		}
	}
	return nil
}

func TestGuestCartMergedOnceIntoUserCart(t *testing.T) {
	db := newTestDB(t, &models.Cart{}, &models.CartLine{})
	cfg := cartTestConfig()
	app := newCartApp(db, cfg)

	userID := uuid.New()
	guestToken := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	userCart := models.Cart{
		UserID: &userID,
		Lines: []models.CartLine{
			{ProductID: productA, Quantity: 1, UnitPrice: 100, Title: "Alpha", Position: 1},
		},
	}
	if err := db.Create(&userCart).Error; err != nil {
		t.Fatalf("seed user cart: %v", err)
	}

	guestCart := models.Cart{
		GuestToken: &guestToken,
		Lines: []models.CartLine{
			{ProductID: productA, Quantity: 2, UnitPrice: 100, Title: "Alpha", Position: 1},
			{ProductID: productB, Quantity: 3, UnitPrice: 50, Title: "Beta", Position: 2},
		},
	}
	if err := db.Create(&guestCart).Error; err != nil {
		t.Fatalf("seed guest cart: %v", err)
	}

	token, err := utils.GenerateSessionToken(cfg.SessionSecret, utils.SessionClaims{
		UserID: userID,
		Email:  "user@example.com",
		Role:   models.RoleCustomer,
	}, cfg.SessionTTL)
	if err != nil {
		t.Fatalf("generate session token: %v", err)
	}

	fetch := func() *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
		req.AddCookie(&http.Cookie{Name: cartTokenCookieName, Value: guestToken.String()})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp
	}

	resp := fetch()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	out := decodeCartResponse(t, resp)
	got := lineQuantities(out)
	if got[productA] != 3 || got[productB] != 3 {
		t.Errorf("expected merged quantities A=3 B=3, got %v", got)
	}
	if out.Data.ItemCount != 6 {
		t.Errorf("expected item_count 6, got %d", out.Data.ItemCount)
	}

	cleared := cartTokenCookie(t, resp)
	if cleared == nil {
		t.Fatal("expected a cart token cookie clearing the guest token")
	}
	if cleared.Value != "" || cleared.Expires.After(time.Now()) {
		t.Errorf("expected an expired empty cart token cookie, got value %q expires %v", cleared.Value, cleared.Expires)
	}

	var orphan models.Cart
	err = db.First(&orphan, "guest_token = ?", guestToken).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected guest cart to be deleted, got err %v", err)
	}

	// A stale cookie on a later fetch must not merge anything a second time.
	resp = fetch()
	out = decodeCartResponse(t, resp)
	got = lineQuantities(out)
	if got[productA] != 3 || got[productB] != 3 || out.Data.ItemCount != 6 {
		t.Errorf("expected quantities unchanged after second fetch, got %v count %d", got, out.Data.ItemCount)
	}
}

func TestGuestBrowseDoesNotCreateCart(t *testing.T) {
	db := newTestDB(t, &models.Cart{}, &models.CartLine{})
	app := newCartApp(db, cartTestConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	out := decodeCartResponse(t, resp)
	if len(out.Data.Lines) != 0 || out.Data.ItemCount != 0 {
		t.Errorf("expected an empty cart, got %+v", out.Data)
	}
	if cookie := cartTokenCookie(t, resp); cookie != nil {
		t.Errorf("expected no cart token cookie on a read, got %v", cookie)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no cart rows after a guest read, got %d", count)
	}
}
