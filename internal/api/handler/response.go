package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the success shape shared by every endpoint. Failures are
// rendered by the HTTP error handler with Success=false and a message.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: true, Message: msg})
}

func respondList(c echo.Context, status int, data any, count int) error {
	return c.JSON(status, envelope{Success: true, Data: data, Count: &count})
}
