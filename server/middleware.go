package server

import (
	"time"

	"github.com/existflow/hackersunity/internal/logger"
	"github.com/labstack/echo/v4"
)

// requestLogger logs every request and its response
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		log := logger.WithFields(
			logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
		)

		log.Debug("HTTP Request", logger.F("remote", c.RealIP()))

		// Process request
		if err := next(c); err != nil {
			// Resolve the error now so the logged status is the one sent
			c.Error(err)
		}

		res := c.Response()
		log.Info("HTTP Response",
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}
