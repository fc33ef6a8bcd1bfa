package storage

import (
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// FormField is the multipart field that carries the images.
const FormField = "images"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		form, err := c.MultipartForm()
		if err != nil {
			return apperror.Validation("images must be sent as multipart form data")
		}
		urls, err := svc.Upload(c.UserContext(), userID, form.File[FormField])
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"urls": urls})
	})
}
