package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

const sessionContextKey = "currentSession"

// RequireSession validates the session cookie and loads the caller's identity
// into the request context. The cookie is parsed at most once per request;
// later guards in the chain reuse the cached claims.
//
// A missing or invalid session answers 401 with the login route the client
// should redirect to. A session with the wrong role is treated exactly like
// no session, so probing a guarded route reveals nothing about the account.
func RequireSession(cfg *config.Config, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := cachedSession(c)
		if !ok {
			token := c.Cookies(utils.SessionCookieName)
			if token == "" {
				return unauthorized(c, roles)
			}

			claims, err := utils.ParseSessionToken(cfg.SessionSecret, token)
			if err != nil {
				return unauthorized(c, roles)
			}

			session = claims
			c.Locals(sessionContextKey, session)
		}

		if len(roles) > 0 && !roleAllowed(session.Role, roles) {
			return unauthorized(c, roles)
		}

		return c.Next()
	}
}

// OptionalSession loads the caller's identity when a valid session cookie is
// present but never rejects the request. Used by routes that serve both
// guests and signed-in users (cart, product listings).
func OptionalSession(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := cachedSession(c); !ok {
			if token := c.Cookies(utils.SessionCookieName); token != "" {
				if claims, err := utils.ParseSessionToken(cfg.SessionSecret, token); err == nil {
					c.Locals(sessionContextKey, claims)
				}
			}
		}
		return c.Next()
	}
}

// RequireAdmin guards admin console routes.
func RequireAdmin(cfg *config.Config) fiber.Handler {
	return RequireSession(cfg, models.RoleAdmin)
}

// CurrentSession extracts the authenticated identity from context.
func CurrentSession(c *fiber.Ctx) (utils.SessionClaims, bool) {
	return cachedSession(c)
}

func cachedSession(c *fiber.Ctx) (utils.SessionClaims, bool) {
	value := c.Locals(sessionContextKey)
	if value == nil {
		return utils.SessionClaims{}, false
	}
	session, ok := value.(utils.SessionClaims)
	return session, ok
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx, roles []string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success":  false,
		"error":    "unauthorized",
		"redirect": LoginPath(roles...),
	})
}

// LoginPath returns the login route for the first required role.
func LoginPath(roles ...string) string {
	if len(roles) > 0 && roles[0] == models.RoleAdmin {
		return "/admin/login"
	}
	return "/login"
}
