// file: internals/helpers/get_school_id.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys hydrated by the auth middleware.
const (
	LocSchoolID = "school_id"
	LocUserID   = "user_id"
	LocRoles    = "roles"
)

// GetSchoolIDFromToken returns the tenant id placed in Locals by AuthJWT.
// Every admin endpoint is school-scoped; a missing id is a hard 401.
func GetSchoolIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocSchoolID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school_id missing from token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "school_id in token is not a valid uuid")
	}
	return id, nil
}

// GetUserIDFromToken returns the acting user id, if present (used for audit).
func GetUserIDFromToken(c *fiber.Ctx) *uuid.UUID {
	raw, _ := c.Locals(LocUserID).(string)
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return &id
	}
	return nil
}
