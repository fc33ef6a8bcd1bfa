package social

import (
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/saved/lookbooks", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		lookbooks, err := svc.SavedLookbooks(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(lookbooks)
	})

	r.Post("/lookbooks/:id/save", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		result, err := svc.ToggleSave(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Post("/:id/follow", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		result, err := svc.ToggleFollow(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		profile, err := svc.UserProfile(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(profile)
	})
}
