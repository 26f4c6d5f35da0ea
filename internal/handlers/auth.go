package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// AuthHandler bundles dependencies for session endpoints. The same handler
// serves the customer and admin surfaces; admin routes pass a required role
// instead of duplicating the handler.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Register creates a new customer account and opens a session for it.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "account already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
		FullName:     req.FullName,
		Phone:        req.Phone,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	if err := h.openSession(c, user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an account and sets the session cookie. When
// requiredRole is non-empty a session for any other role is refused with the
// same response as bad credentials.
func (h *AuthHandler) Login(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
		}

		var user models.User
		if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
			}
			return err
		}

		if !utils.VerifyPassword(user.PasswordHash, req.Password) || user.IsDisabled {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		if requiredRole != "" && user.Role != requiredRole {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		if err := h.openSession(c, user); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"user":    userPayload(user),
		})
	}
}

// Me is the hydration endpoint: it resolves the session cookie back to the
// account. A session for a deleted or disabled account is cleared so the
// client settles on a signed-out state.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Cookie(utils.ExpiredSessionCookie(h.cfg.CookieSecure))
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return err
	}

	if user.IsDisabled {
		c.Cookie(utils.ExpiredSessionCookie(h.cfg.CookieSecure))
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

// Logout clears the session cookie. Always succeeds; there is nothing to
// invalidate server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(utils.ExpiredSessionCookie(h.cfg.CookieSecure))
	return c.JSON(fiber.Map{"success": true})
}

// Refresh re-issues the session cookie with a fresh expiry. Keep-alive
// companion for long-lived tabs.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := utils.GenerateSessionToken(h.cfg.SessionSecret, session, h.cfg.SessionTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate session")
	}

	c.Cookie(utils.NewSessionCookie(token, h.cfg.SessionTTL, h.cfg.CookieSecure))
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) openSession(c *fiber.Ctx, user models.User) error {
	token, err := utils.GenerateSessionToken(h.cfg.SessionSecret, utils.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, h.cfg.SessionTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate session")
	}

	c.Cookie(utils.NewSessionCookie(token, h.cfg.SessionTTL, h.cfg.CookieSecure))
	return nil
}

func userPayload(user models.User) fiber.Map {
	return fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"full_name": user.FullName,
		"phone":     user.Phone,
	}
}
