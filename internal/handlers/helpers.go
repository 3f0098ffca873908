package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Radhe743/full-stack-social-media-app/internal/middleware"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// getUserIDFromContext returns the id of the authenticated user
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims, ok := c.Get(middleware.UserContextKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided")
	}
	return claims.UserID, nil
}

// currentUser loads the authenticated user with its profile
func currentUser(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user no longer exists")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user.Profile == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "User profile missing")
	}
	return user, nil
}

func parseIDParam(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label+" ID")
	}
	return uint(id), nil
}

// notFoundOr maps gorm.ErrRecordNotFound to a 404 with msg and anything else to a 500
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
