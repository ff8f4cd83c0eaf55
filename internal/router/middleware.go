package router

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lms/internal/auth"
	apperrors "lms/internal/errors"
	"lms/internal/model"
)

// identity lifts the claims parsed by the echo-jwt middleware into a typed
// actor on the request context. A token that verified but carries unusable
// claims is still a 401, not a 403: the requester never proved who they are.
func identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			rawID, _ := claims["user_id"].(string)
			userID, err := uuid.Parse(rawID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			rawRole, _ := claims["role"].(string)
			role := model.Role(rawRole)
			if !role.Valid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			auth.SetActor(c, auth.Actor{ID: userID, Role: role})
			return next(c)
		}
	}
}

// requireRoles rejects authenticated requests whose role is not in the
// allow-list. Distinct from the 401 issued for missing or invalid tokens.
func requireRoles(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := auth.ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			for _, role := range allowed {
				if actor.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrForbidden.Error(),
				Code:  "FORBIDDEN",
			})
		}
	}
}
