package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lms/internal/auth"
	apperrors "lms/internal/errors"
)

// httpError translates a domain error into the standard response shape.
func httpError(err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}

// currentActor returns the authenticated requester set by the identity
// middleware.
func currentActor(c echo.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		return auth.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return actor, nil
}

// MessageResponse is a plain message body.
type MessageResponse struct {
	Message string `json:"message"`
}
