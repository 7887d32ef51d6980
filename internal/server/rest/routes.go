package rest

import "github.com/gofiber/fiber/v2"

// registerRoutes mounts the API on r. It is called for the root and for
// /api so both base paths serve the same handlers.
func (s *HTTPServer) registerRoutes(r fiber.Router) {
	r.Get("/", s.info)
	r.Get("/healthz", s.health)

	r.Post("/auth/register", s.authLimiter, s.register)
	r.Post("/auth/login", s.authLimiter, s.login)
	r.Get("/auth/me", s.accessGuard, s.me)

	e := r.Group("/entries", s.accessGuard)
	e.Get("/", s.listEntries)
	e.Post("/", s.createEntry)
	if s.opts.PostersEnabled {
		e.Post("/poster-upload", s.posterUpload)
	}
	e.Get("/:id", s.getEntry)
	e.Put("/:id", s.updateEntry)
	e.Delete("/:id", s.deleteEntry)
}
