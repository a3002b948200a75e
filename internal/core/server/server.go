package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drone-pickup/internal/core/config"
	"drone-pickup/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "drone-pickup/docs/swagger"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "drone-pickup",
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	if cfg.RequestTimeout > 0 {
		app.Use(requestTimeout(cfg.RequestTimeout))
	}

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"requestId", "latency", "status", "method", "url"},
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	s := &Server{
		App: app,
		cfg: cfg,
	}
	app.Get("/healthz", s.health)
	return s
}

// health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Environment: s.cfg.Environment})
}

// requestTimeout gives every handler a context that expires after d.
// fasthttp does not report client disconnects, so the deadline is what ends
// an abandoned request waiting on an artificial delay.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandler renders unhandled errors (unknown routes, panics turned into
// errors) in the same shape the feature handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logger.Get().Error("Unhandled request error", zap.Error(err))
	}

	rayID, _ := c.Locals("requestid").(string)
	return c.Status(code).JSON(fiber.Map{
		"message": msg,
		"ray_id":  rayID,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
