// Package rest is the HTTP/JSON transport of the API server, built on fiber.
package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/dmitrijs2005/cinecollection/internal/server/auth"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/dmitrijs2005/cinecollection/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the info endpoint.
const Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Me(ctx context.Context, userID int64) (*models.UserView, error)
}

type EntryService interface {
	List(ctx context.Context, userID int64, q models.ListQuery) (*models.EntryPage, error)
	Get(ctx context.Context, userID, id int64) (*models.Entry, error)
	Create(ctx context.Context, userID int64, in models.EntryInput) (*models.Entry, error)
	Update(ctx context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error)
	Delete(ctx context.Context, userID, id int64) error
	PosterUploadURL(ctx context.Context, userID int64, contentType string) (*models.PosterUpload, error)
}

// Pinger reports database reachability; *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	// AuthRateLimit is the number of auth requests allowed per IP per
	// minute. Zero disables the limiter.
	AuthRateLimit int
	// PostersEnabled registers the poster upload route.
	PostersEnabled bool
}

type HTTPServer struct {
	address string
	app     *fiber.App
	users   UserService
	entries EntryService
	db      Pinger
	opts    Options
	logger  logging.Logger

	authLimiter fiber.Handler
}

func NewHTTPServer(addr string, l logging.Logger, us UserService, es EntryService, db Pinger, opts Options) *HTTPServer {
	s := &HTTPServer{
		address: addr,
		users:   us,
		entries: es,
		db:      db,
		opts:    opts,
		logger:  l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "CineCollection",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	s.authLimiter = newAuthLimiter(opts.AuthRateLimit)

	s.registerMiddleware()
	s.registerRoutes(s.app)
	s.registerRoutes(s.app.Group("/api"))

	return s
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(context.Background(), "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}
