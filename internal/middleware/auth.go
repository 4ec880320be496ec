package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/pkg/jwtutil"
	"github.com/saran-softdev/component-library-sub001/pkg/logger"
	"github.com/saran-softdev/component-library-sub001/prometheus"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header
// and places the principal into the request context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAccessError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAccessError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAccessError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store the principal in context for the handlers
		c.Set("user_id", claims.UserID)
		c.Set("role_id", claims.RoleID)
		c.Set("organization_id", claims.OrganizationID)
		c.Set("email", claims.Email)

		log.Debug("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("role_id", claims.RoleID),
			zap.Uint("organization_id", claims.OrganizationID))

		return next(c)
	}
}

// PrincipalFromContext rebuilds the access principal placed into the
// echo context by AuthMiddleware.
func PrincipalFromContext(c echo.Context) access.Principal {
	p := access.Principal{}
	if userID, ok := c.Get("user_id").(uint); ok {
		p.UserID = userID
	}
	if roleID, ok := c.Get("role_id").(uint); ok {
		p.RoleID = roleID
	}
	if orgID, ok := c.Get("organization_id").(uint); ok {
		p.OrganizationID = orgID
	}
	return p
}
