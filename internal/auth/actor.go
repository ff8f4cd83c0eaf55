package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lms/internal/model"
)

const actorContextKey = "actor"

// Actor identifies the authenticated requester for the duration of a request.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// SetActor stores the actor on the request context.
func SetActor(c echo.Context, a Actor) {
	c.Set(actorContextKey, a)
}

// ActorFrom returns the actor stored by the identity middleware.
func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorContextKey).(Actor)
	return a, ok
}
