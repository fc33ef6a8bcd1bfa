package auth

import (
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperror.Validation("invalid payload")
		}
		resp, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return apperror.Validation("invalid payload")
		}
		resp, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	r.Get("/profile", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		profile, err := svc.Profile(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(profile)
	})

	r.Put("/profile", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		var patch ProfilePatch
		if err := c.BodyParser(&patch); err != nil {
			return apperror.Validation("invalid payload")
		}
		resp, err := svc.UpdateProfile(c.UserContext(), userID, patch)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})
}
