package server

import (
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/apperror"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/auth"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/cache"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/config"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/discover"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/lookbook"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/social"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Cache   *cache.Cache
	Objects storage.ObjectStorage
}

// NewServer builds the HTTP app. objects may be nil, in which case uploads
// answer with an upstream error.
func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, objects storage.ObjectStorage) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperror.Handler,
		BodyLimit:    cfg.BodyLimitBytes,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Cache:   cache.New(redisClient, cfg.TrendingCacheTTL),
		Objects: objects,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	lookbooks := lookbook.NewService(s.DB, s.Cache)

	api := s.App.Group("/api")
	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.JWTTTL, s.DB), jwtMiddleware)
	lookbook.RegisterRoutes(api.Group("/lookbooks"), lookbooks, jwtMiddleware)
	discover.RegisterRoutes(api.Group("/discover"), discover.NewService(lookbooks, s.Cache), jwtMiddleware)
	social.RegisterRoutes(api.Group("/users"), social.NewService(s.DB, lookbooks), jwtMiddleware)
	storage.RegisterRoutes(api.Group("/upload"),
		storage.NewService(s.DB, s.Objects, s.Cfg.Minio.MediaBaseURL, s.Cfg.UploadMaxFiles), jwtMiddleware)

	s.App.Use(func(c *fiber.Ctx) error {
		return apperror.NotFound("route not found")
	})
}
