package middleware

import (
	"net/http"
	"strings"

	"github.com/Radhe743/full-stack-social-media-app/internal/auth"
	"github.com/labstack/echo/v4"
)

// UserContextKey is where the access token claims are stored on the echo context
const UserContextKey = "user"

// JWTAuthMiddleware checks for a valid access token and extracts user claims.
func JWTAuthMiddleware(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := tokens.Parse(parts[1], auth.AccessTokenType)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}
