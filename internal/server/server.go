package server

import (
	"log"

	"speaksmart-be/internal/bootstrap"
	"speaksmart-be/internal/config"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024, // 1MB
		DisableStartupMessage: cfg.App.Environment == "production",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins(cfg.App),
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Content-Disposition",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/health"
	})))
	app.Use(observe.Middleware(container.Metrics))

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on %s (port %s)", s.cfg.App.BaseURL, s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// allowedOrigins falls back to the web client's origin when no explicit
// CORS list is configured.
func allowedOrigins(app config.AppConfig) string {
	if app.CorsAllowedOrigins != "" {
		return app.CorsAllowedOrigins
	}
	return app.ClientURL
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.HealthController.RegisterRoutes(app)
	app.Get("/metrics", observe.MetricsHandler(c.MetricsRegistry))

	api := app.Group("/api")

	c.QuestionController.RegisterRoutes(api)
	c.EvaluationController.RegisterRoutes(api)
	c.TTSController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
}
