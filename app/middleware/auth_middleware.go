// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/utils"
)

// Roles accepted on authoring routes
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate validates the bearer token and stores the derived user claim
// in the request context
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respondAuthError(c, models.ErrUnauthorized.WithMessage("Authorization header is required"))
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			return respondAuthError(c, models.ErrUnauthorized.WithMessage("Invalid authorization header format. Expected 'Bearer <token>'"))
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				return respondAuthError(c, appErr)
			}
			return respondAuthError(c, models.ErrInvalidToken.Wrap(err))
		}

		userID := claims.UserID()
		if userID <= 0 {
			return respondAuthError(c, models.ErrInvalidToken.WithMessage("Token subject is not a valid user ID"))
		}

		c.Locals("user_id", userID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_role", claims.Role)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireRole enforces a role set. It presupposes Authenticate has run: an
// absent claim is treated as unauthorized, never as a pass.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok {
			return respondAuthError(c, models.ErrUnauthorized)
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return respondAuthError(c, models.ErrForbidden.WithContext("role", role))
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (int, bool) {
	userID, ok := c.Locals("user_id").(int)
	return userID, ok
}

// GetUserRoleFromContext extracts the authenticated role from the request context
func GetUserRoleFromContext(c fiber.Ctx) (string, bool) {
	role, ok := c.Locals("user_role").(string)
	return role, ok
}

func respondAuthError(c fiber.Ctx, appErr *models.AppError) error {
	return c.Status(appErr.HTTPStatus).JSON(dto.APIResponse{
		Success: false,
		Message: appErr.Message,
		Error: dto.ErrorDetail{
			Code:     appErr.Code,
			Message:  appErr.Message,
			Metadata: appErr.Metadata,
		},
		Timestamp: utils.UTCNow(),
	})
}
