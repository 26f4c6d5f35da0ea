package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// ProductHandler serves the storefront product read API and the admin CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// List returns paginated products with optional filters. For signed-in
// callers each product is annotated with its wishlist membership.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("title ILIKE ? OR short_description ILIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if c.Query("in_stock") == "true" {
		query = query.Where("in_stock = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Category").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	if err := h.annotateWishlist(c, products); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns one product by slug.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var product models.Product
	if err := h.db.Preload("Category").First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	products := []models.Product{product}
	if err := h.annotateWishlist(c, products); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products[0]})
}

type productRequest struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	LongDescription  string   `json:"long_description"`
	Price            float64  `json:"price"`
	Currency         string   `json:"currency"`
	Image            string   `json:"image"`
	Gallery          []string `json:"gallery"`
	InStock          bool     `json:"in_stock"`
	CategoryID       string   `json:"category_id"`
}

// Create adds a product (admin).
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Slug == "" || req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	product := models.Product{
		Slug:             req.Slug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		Currency:         req.Currency,
		Image:            req.Image,
		Gallery:          req.Gallery,
		InStock:          req.InStock,
	}

	if req.CategoryID != "" {
		if id, err := uuid.Parse(req.CategoryID); err == nil {
			product.CategoryID = &id
		}
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// Update modifies a product (admin).
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Slug != "" {
		product.Slug = req.Slug
	}
	if req.Title != "" {
		product.Title = req.Title
	}
	product.ShortDescription = req.ShortDescription
	product.LongDescription = req.LongDescription
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	product.Image = req.Image
	if req.Gallery != nil {
		product.Gallery = req.Gallery
	}
	product.InStock = req.InStock
	if req.CategoryID != "" {
		if cid, err := uuid.Parse(req.CategoryID); err == nil {
			product.CategoryID = &cid
		}
	}

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// Delete removes a product (admin).
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ProductHandler) annotateWishlist(c *fiber.Ctx, products []models.Product) error {
	session, ok := middleware.CurrentSession(c)
	if !ok || len(products) == 0 {
		return nil
	}

	var items []models.WishlistItem
	if err := h.db.Where("user_id = ?", session.UserID).Find(&items).Error; err != nil {
		return err
	}

	set := models.NewWishlistSet(items)
	for i := range products {
		products[i].InWishlist = set.Has(products[i].ID)
	}
	return nil
}
