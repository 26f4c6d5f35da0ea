package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// cartTokenCookieName identifies a guest cart until its owner signs in.
const cartTokenCookieName = "cart_token"

// CartHandler manages the server cart resource for guests and signed-in users.
type CartHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{db: db, cfg: cfg}
}

// Get returns the current cart. For a signed-in request that still carries a
// guest cart cookie this is where the guest cart is folded into the user
// cart; the merge happens once because the cookie is cleared afterwards.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.currentCart(c, false)
	if err != nil {
		return err
	}
	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem merges a product into the cart, summing quantities for a product
// already present.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	cart, err := h.currentCart(c, true)
	if err != nil {
		return err
	}

	cart.AddLine(product, req.Quantity)
	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity for a cart line. A quantity of zero or less
// removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cart, err := h.currentCart(c, false)
	if err != nil {
		return err
	}

	if !cart.SetQuantity(productID, req.Quantity) {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

// RemoveItem drops a cart line. Removing an absent line is a no-op.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	cart, err := h.currentCart(c, false)
	if err != nil {
		return err
	}

	if cart.RemoveLine(productID) {
		if err := saveCartLines(h.db, cart); err != nil {
			return err
		}
	}

	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.currentCart(c, false)
	if err != nil {
		return err
	}

	cart.Clear()
	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

// currentCart resolves the cart the request operates on. Guest carts are only
// persisted on the first write (create=true); read paths on an empty guest
// session work against a transient cart so browsing never inserts rows.
func (h *CartHandler) currentCart(c *fiber.Ctx, create bool) (*models.Cart, error) {
	if session, ok := middleware.CurrentSession(c); ok {
		cart, err := getOrCreateUserCart(h.db, session.UserID)
		if err != nil {
			return nil, err
		}
		if err := h.absorbGuestCart(c, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	return h.guestCart(c, create)
}

func (h *CartHandler) guestCart(c *fiber.Ctx, create bool) (*models.Cart, error) {
	token, err := uuid.Parse(c.Cookies(cartTokenCookieName))
	if err == nil {
		var cart models.Cart
		err := h.db.Preload("Lines", sortCartLines).First(&cart, "guest_token = ?", token).Error
		if err == nil {
			return &cart, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		token = uuid.New()
	}

	if !create {
		return &models.Cart{}, nil
	}

	cart := models.Cart{GuestToken: &token}
	if err := h.db.Create(&cart).Error; err != nil {
		return nil, err
	}

	c.Cookie(newCartTokenCookie(token, h.cfg.CookieSecure))
	return &cart, nil
}

// absorbGuestCart merges a pending guest cart into the signed-in user's cart,
// deletes the guest cart and clears its cookie.
func (h *CartHandler) absorbGuestCart(c *fiber.Ctx, cart *models.Cart) error {
	token, err := uuid.Parse(c.Cookies(cartTokenCookieName))
	if err != nil {
		return nil
	}

	var guest models.Cart
	if err := h.db.Preload("Lines", sortCartLines).First(&guest, "guest_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Cookie(expiredCartTokenCookie(h.cfg.CookieSecure))
			return nil
		}
		return err
	}

	cart.MergeFrom(&guest)
	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	if err := h.db.Where("cart_id = ?", guest.ID).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&guest).Error; err != nil {
		return err
	}

	c.Cookie(expiredCartTokenCookie(h.cfg.CookieSecure))
	return nil
}

// getOrCreateUserCart loads the user's cart with lines in display order,
// creating an empty cart on first use. Shared with the wishlist handler.
func getOrCreateUserCart(db *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Lines", sortCartLines).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: &userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// saveCartLines persists the in-memory line set as the cart's new contents.
// Carts are small, so replace-on-write keeps the model's merge logic the
// single source of truth. A transient (never persisted) cart is left alone.
func saveCartLines(db *gorm.DB, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		if len(cart.Lines) == 0 {
			return nil
		}
		for i := range cart.Lines {
			cart.Lines[i].CartID = cart.ID
		}
		return tx.Create(&cart.Lines).Error
	})
}

func sortCartLines(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func cartPayload(cart *models.Cart, currency string) fiber.Map {
	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return fiber.Map{
		"success": true,
		"data": fiber.Map{
			"lines":            lines,
			"subtotal":         cart.Subtotal(),
			"item_count":       cart.ItemCount(),
			"subtotal_display": utils.FormatPrice(cart.Subtotal(), currency),
		},
	}
}

func newCartTokenCookie(token uuid.UUID, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cartTokenCookieName,
		Value:    token.String(),
		Path:     "/",
		Expires:  time.Now().Add(180 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func expiredCartTokenCookie(secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     cartTokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
