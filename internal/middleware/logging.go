package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/metrics"
)

// RequestLogger logs every request with its outcome and records the
// Prometheus request counters and latency histogram. Route patterns,
// not raw paths, are used as metric labels to keep cardinality bounded.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		duration := time.Since(start)
		metrics.RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), route).Observe(duration.Seconds())

		logger := slog.Info
		if status >= 500 {
			logger = slog.Error
		}
		logger("Request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", duration,
		)
		return err
	}
}
