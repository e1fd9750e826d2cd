package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// loggerMiddleware logs every request with its status and latency
func loggerMiddleware(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let echo write the error response so the logged status is the real one
				c.Error(err)
			}

			req := c.Request()
			entry := log.WithFields(logrus.Fields{
				"status":     c.Response().Status,
				"latency":    time.Since(start).String(),
				"client_ip":  c.RealIP(),
				"method":     req.Method,
				"path":       req.URL.Path,
				"request_id": requestID(c),
			})

			switch status := c.Response().Status; {
			case status >= 500:
				entry.Error("request failed")
			case status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request completed")
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// requestLogger returns the server logger tagged with the request id
func (s *Server) requestLogger(c echo.Context) logrus.FieldLogger {
	return s.log.WithField("request_id", requestID(c))
}
