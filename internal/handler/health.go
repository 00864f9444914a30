package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint polled by load balancers and container
// health checks. It touches neither Redis nor RabbitMQ, so it answers 200
// with a plain "ok" whenever the process is serving.
func Health(c echo.Context) error {
	// plain text, not JSON
	return c.String(http.StatusOK, "ok")
}
