package auth

import (
	"errors"
	"strings"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localsUserID = "user_id"

var errTokenInvalid = errors.New("token invalid")

// JWTMiddleware validates bearer tokens and stores user_id in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, no token")
		}

		claims, err := parseClaims(secretBytes, token)
		if errors.Is(err, errTokenInvalid) {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, token invalid")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, token failed")
		}

		c.Locals(localsUserID, claims.UserID)
		return c.Next()
	}
}

// parseClaims verifies an HS256 token signed with secret. A token that parses
// but carries no user id fails with errTokenInvalid.
func parseClaims(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errTokenInvalid
	}
	return claims, nil
}

// UserID returns the caller identity placed in locals by JWTMiddleware.
func UserID(c *fiber.Ctx) (string, error) {
	id, _ := c.Locals(localsUserID).(string)
	if id == "" {
		return "", apperror.Unauthorized("not authorized")
	}
	return id, nil
}

// WithUserID marks every request as coming from id, without a token.
func WithUserID(id string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localsUserID, id)
		return c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
