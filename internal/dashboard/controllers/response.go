package controllers

import (
	"github.com/labstack/echo/v4"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}
