package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optistore/internal/apperr"
	"optistore/internal/middleware"
	"optistore/internal/model"
)

const dateLayout = "2006-01-02"

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrPermissionDenied):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrExternalService):
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}

// paramID parses the named route parameter as a UUID.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(c *fiber.Ctx, entity string) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid " + entity + " ID"})
}

func caller(c *fiber.Ctx) model.Caller {
	return middleware.CallerFrom(c)
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperr.Invalid(key, "date", "use the YYYY-MM-DD format")
	}
	return &t, nil
}
