package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/labstack/echo/v4"
)

// Metrics collects HTTP metrics for Prometheus. Paths are recorded as route
// templates so ids do not blow up label cardinality.
func Metrics() echo.MiddlewareFunc {
	m := metrics.Get()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			m.HTTPActiveConnections.WithLabelValues(method).Inc()
			defer m.HTTPActiveConnections.WithLabelValues(method).Dec()

			start := time.Now()
			err := next(c)
			duration := time.Since(start).Seconds()

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			statusStr := strconv.Itoa(status)
			m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
			return err
		}
	}
}
