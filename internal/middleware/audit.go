package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger writes one structured access log line per request and feeds
// the latency histogram. Health probes and scrapes are skipped.
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if shouldSkipLogging(c.Path()) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}
			latency := time.Since(start)

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			if m != nil {
				m.HTTPDuration.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Observe(latency.Seconds())
			}

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("route", route),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("latency", latency),
				zap.String("ip", c.RealIP()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			}
			if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
				fields = append(fields, zap.String("user_id", userID.String()))
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request failed", append(fields, zap.Error(err))...)
			case status >= http.StatusBadRequest:
				logger.Info("request rejected", append(fields, zap.Error(err))...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}

func shouldSkipLogging(path string) bool {
	switch path {
	case "/health", "/health/ready", "/metrics":
		return true
	}
	return false
}

// HTTPErrorHandler renders every error in the response envelope. Domain
// errors map through common.HTTPStatus; echo errors keep their status.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				message = s
			}
			if werr := c.JSON(he.Code, common.Envelope{Success: false, Error: message, Code: httpErrorCode(he.Code)}); werr != nil {
				logger.Error("failed to write error response", zap.Error(werr))
			}
			return
		}

		if common.HTTPStatus(err) >= http.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("route", c.Path()), zap.Error(err))
		}
		if werr := common.SendError(c, err); werr != nil {
			logger.Error("failed to write error response", zap.Error(werr))
		}
	}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL"
	}
	return "BAD_REQUEST"
}
