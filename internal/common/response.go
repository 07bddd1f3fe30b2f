package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SendData writes a successful envelope.
func SendData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// SendError writes a failed envelope. Internal errors never leak their message.
func SendError(c echo.Context, err error) error {
	status := HTTPStatus(err)
	message := err.Error()
	// Only unavailability explains itself; other server errors stay opaque.
	if status >= 500 && status != http.StatusServiceUnavailable {
		message = "internal server error"
	}
	return c.JSON(status, Envelope{Success: false, Error: message, Code: ErrorCode(err)})
}
