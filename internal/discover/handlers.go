package discover

import (
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/trending", func(c *fiber.Ctx) error {
		lookbooks, err := svc.Trending(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(lookbooks)
	})

	r.Get("/recommended", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		lookbooks, err := svc.Recommended(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(lookbooks)
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		lookbooks, err := svc.Search(c.UserContext(), SearchParams{
			Q:        c.Query("q"),
			Theme:    c.Query("theme"),
			Season:   c.Query("season"),
			Occasion: c.Query("occasion"),
		})
		if err != nil {
			return err
		}
		return c.JSON(lookbooks)
	})
}
