package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
)

// WishlistHandler manages the authenticated user's saved products.
type WishlistHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewWishlistHandler constructs WishlistHandler.
func NewWishlistHandler(db *gorm.DB, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{db: db, cfg: cfg}
}

// List returns the saved products in the order they were added.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.WishlistItem
	if err := h.db.Where("user_id = ?", session.UserID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products := []models.Product{}
	if len(ids) > 0 {
		if err := h.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		// Keep the wishlist's own ordering, not the query's.
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			p.InWishlist = true
			byID[p.ID] = p
		}
		products = products[:0]
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				products = append(products, p)
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

type toggleRequest struct {
	ProductID string `json:"product_id"`
}

// Toggle flips a product's wishlist membership and reports the new state.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req toggleRequest
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

	set, err := h.loadSet(session.UserID)
	if err != nil {
		return err
	}

	if set.Toggle(productID) {
		item := models.WishlistItem{UserID: session.UserID, ProductID: productID}
		if err := h.db.Create(&item).Error; err != nil {
			return err
		}
	} else {
		if err := h.db.Where("user_id = ? AND product_id = ?", session.UserID, productID).
			Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"in_wishlist": set.Has(productID),
	})
}

// Remove drops a product from the wishlist. No-op when absent.
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.db.Where("user_id = ? AND product_id = ?", session.UserID, productID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// MoveToCart adds a saved product to the cart and removes it from the
// wishlist in one step.
func (h *WishlistHandler) MoveToCart(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var item models.WishlistItem
	if err := h.db.Where("user_id = ? AND product_id = ?", session.UserID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not in wishlist")
		}
		return err
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	cart, err := getOrCreateUserCart(h.db, session.UserID)
	if err != nil {
		return err
	}

	cart.AddLine(product, 1)
	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	if err := h.db.Delete(&item).Error; err != nil {
		return err
	}

	return c.JSON(cartPayload(cart, h.cfg.Currency))
}

func (h *WishlistHandler) loadSet(userID uuid.UUID) (models.WishlistSet, error) {
	var items []models.WishlistItem
	if err := h.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return models.NewWishlistSet(items), nil
}
