package server

import (
	"time"

	"artist-booking/types"

	"github.com/gofiber/fiber/v2"
)

// Health reports service liveness and basic metadata.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "artist-booking is up",
		Data: fiber.Map{
			"service": "artist-booking",
			"time":    time.Now().Format(time.RFC3339),
		},
	})
}
