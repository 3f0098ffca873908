package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "social-api",
	})
}

// RouteIndex lists the routes registered under prefix
func RouteIndex(e *echo.Echo, prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		routes := make([]string, 0)
		seen := make(map[string]bool)
		for _, r := range e.Routes() {
			if !strings.HasPrefix(r.Path, prefix) {
				continue
			}
			key := r.Method + " " + r.Path
			if seen[key] || r.Method == echo.RouteNotFound {
				continue
			}
			seen[key] = true
			routes = append(routes, key)
		}
		sort.Strings(routes)
		return c.JSON(http.StatusOK, echo.Map{"routes": routes})
	}
}
