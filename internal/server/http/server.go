// Package http exposes the REST API over fiber. Every request passes the
// access gate before it reaches a handler.
package http

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services bundles the business logic the handlers call into.
type Services struct {
	Users     UserService
	Profiles  ProfileService
	Reactions ReactionService
	Comments  CommentService
	Roles     RoleService
}

type HTTPServer struct {
	address   string
	app       *fiber.App
	gate      *Gate
	logger    logging.Logger
	users     UserService
	profiles  ProfileService
	reactions ReactionService
	comments  CommentService
	roles     RoleService
}

func NewHTTPServer(a string, l logging.Logger, gate *Gate, svc Services) *HTTPServer {
	s := &HTTPServer{
		address:   a,
		gate:      gate,
		logger:    l.With("module", "http_server"),
		users:     svc.Users,
		profiles:  svc.Profiles,
		reactions: svc.Reactions,
		comments:  svc.Comments,
		roles:     svc.Roles,
	}

	s.app = fiber.New(fiber.Config{
		// The gate classifies the raw path, so routing must not fold case.
		CaseSensitive:         true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(s.logger),
	})
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())
	s.app.Use(s.gate.Handler())

	s.app.Get("/health", s.health)

	api := s.app.Group("/api")

	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)
	api.Get("/auth/me", s.me)

	api.Get("/public/profiles/popular", s.popularProfiles)
	api.Get("/public/profiles/:id", s.getProfile)
	api.Get("/public/profiles/:id/comments", s.listComments)

	api.Post("/profiles", s.createProfile)
	api.Post("/profiles/:id/preview-upload", s.previewUpload)
	api.Post("/profiles/:id/like", s.like)
	api.Post("/profiles/:id/dislike", s.dislike)
	api.Post("/profiles/:id/comments", s.addComment)

	api.Get("/roles", s.listRoles)
	api.Get("/admin/users", s.listUsers)
	api.Put("/admin/users/:id", s.updateUser)
}

// App exposes the fiber application, mainly for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
