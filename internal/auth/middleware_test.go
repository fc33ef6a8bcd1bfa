package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id)
	})

	svc := NewService("secret", time.Hour, nil)

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// wrong scheme
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for basic auth")
	}

	// garbage token
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for bad token")
	}

	// valid token
	token, _ := svc.signToken("user-1", time.Minute)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	token, _ := NewService("secret", time.Hour, nil).signToken("user-1", -time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for expired token")
	}
}

func TestJWTMiddlewareMessages(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	svc := NewService("secret", time.Hour, nil)
	anonymous, _ := svc.signToken("", time.Minute)

	cases := map[string]string{
		"":                    "not authorized, no token",
		"Bearer bad":          "not authorized, token failed",
		"Bearer " + anonymous: "not authorized, token invalid",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, _ := app.Test(req)
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode != http.StatusUnauthorized || body.Message != want {
			t.Fatalf("header %q: expected 401 %q, got %d %q", header, want, resp.StatusCode, body.Message)
		}
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler})
	app.Get("/anon", func(c *fiber.Ctx) error {
		_, err := UserID(c)
		return err
	})
	app.Get("/as", WithUserID("user-9"), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id)
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/anon", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized without identity")
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/as", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok with identity")
	}
}

func TestBearerFromHeader(t *testing.T) {
	if bearerFromHeader("bad") != "" {
		t.Fatalf("expected empty token")
	}
	if bearerFromHeader("Bearer token") != "token" {
		t.Fatalf("expected token")
	}
	if bearerFromHeader("bearer  token ") != "token" {
		t.Fatalf("expected case-insensitive scheme")
	}
}
