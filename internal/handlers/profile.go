package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// ProfileHandler manages the account pages: profile, password, addresses.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"full_name":  user.FullName,
			"phone":      user.Phone,
			"created_at": user.CreatedAt,
			"updated_at": user.UpdatedAt,
		},
	})
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Update updates profile fields.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.db.Model(&models.User{}).Where("id = ?", session.UserID).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword replaces the account password after verifying the current one.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.NewPassword) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return err
	}

	if !utils.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return fiber.NewError(fiber.StatusUnauthorized, "current password is incorrect")
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "password changed"})
}

// ListAddresses returns the user's saved addresses.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var addresses []models.UserAddress
	if err := h.db.Where("user_id = ?", session.UserID).
		Order("created_at asc").
		Find(&addresses).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

type addressRequest struct {
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	Apartment   string `json:"apartment"`
	City        string `json:"city"`
	District    string `json:"district"`
	PostalCode  string `json:"postal_code"`
	IsDefault   bool   `json:"is_default"`
}

// CreateAddress saves a new address. Marking it default clears the previous
// default.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.AddressLine == "" || req.City == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	address := models.UserAddress{
		UserID:      session.UserID,
		Label:       req.Label,
		AddressLine: req.AddressLine,
		Apartment:   req.Apartment,
		City:        req.City,
		District:    req.District,
		PostalCode:  req.PostalCode,
		IsDefault:   req.IsDefault,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", session.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

// UpdateAddress modifies one of the user's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var address models.UserAddress
	if err := h.db.First(&address, "id = ? AND user_id = ?", id, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}
		return err
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address.Label = req.Label
	if req.AddressLine != "" {
		address.AddressLine = req.AddressLine
	}
	address.Apartment = req.Apartment
	if req.City != "" {
		address.City = req.City
	}
	address.District = req.District
	address.PostalCode = req.PostalCode

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !address.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", session.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		address.IsDefault = req.IsDefault
		return tx.Save(&address).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": address})
}

// DeleteAddress removes one of the user's addresses.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Where("id = ? AND user_id = ?", id, session.UserID).
		Delete(&models.UserAddress{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
