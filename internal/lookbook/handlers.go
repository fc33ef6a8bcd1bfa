package lookbook

import (
	"strconv"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		var req CreateInput
		if err := c.BodyParser(&req); err != nil {
			return apperror.Validation("invalid payload")
		}
		lookbook, err := svc.Create(c.UserContext(), userID, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(lookbook)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		page := 1
		if raw := c.Query("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperror.Validation("page must be an integer")
			}
			page = n
		}
		result, err := svc.List(c.UserContext(), page)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		lookbook, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(lookbook)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		var patch Patch
		if err := c.BodyParser(&patch); err != nil {
			return apperror.Validation("invalid payload")
		}
		lookbook, err := svc.Update(c.UserContext(), userID, c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(lookbook)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Lookbook removed"})
	})

	r.Post("/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		result, err := svc.ToggleLike(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Post("/:id/comment", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return apperror.Validation("invalid payload")
		}
		comments, err := svc.AddComment(c.UserContext(), userID, c.Params("id"), body.Text)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(comments)
	})
}
