package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// AuthUser validates that the request carries a valid Authorizer session
// and stores the resolved user id in the request context. The Authorizer
// client is initialized lazily on the first authenticated request, since
// the redirect URL depends on how the service is addressed.
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusServiceUnavailable,
					Message: fmt.Sprintf("Authorizer unavailable: %v", err),
					Type:    types.ErrTypeAuth,
				}
			}
		}

		// Get session cookie
		session := c.Cookies("cookie_session")
		if session == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Authorizer cookie \"cookie_session\" not found",
				Type:    types.ErrTypeAuth,
			}
		}

		// Validate session and resolve the user
		userID, err := services.ValidateSession(session, []string{"user"})
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Invalid session: %v", err),
				Type:    types.ErrTypeAuth,
			}
		}

		c.Locals("userID", userID)

		return c.Next()
	}
}
