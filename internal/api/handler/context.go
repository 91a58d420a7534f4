package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a token without a
// subject or role is structurally valid but operationally unusable, so
// reject it with 401 instead of passing empty identities downstream.
func ctxActor(c echo.Context) (ports.Actor, error) {
	sub, _ := c.Get("sub").(string)
	role, _ := c.Get("role").(string)
	if sub == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	return ports.Actor{
		ID:   sub,
		Name: name,
		Role: domain.Role(role),
	}, nil
}
