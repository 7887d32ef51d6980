package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDLocal = "requestid"

func (s *HTTPServer) registerMiddleware() {
	s.app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	}))
	s.app.Use(s.accessLog)
	s.app.Use(recover.New())
	s.app.Use(cors.New())
}

// accessLog resolves the handler chain's error itself so the logged status
// is the one the client sees.
func (s *HTTPServer) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if chainErr := c.Next(); chainErr != nil {
		if err := c.App().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start),
		"request_id", c.Locals(requestIDLocal),
	)
	return nil
}

// accessGuard admits requests carrying a valid "Authorization: Bearer"
// token and records the caller's identity. Anything else ends with 401.
func (s *HTTPServer) accessGuard(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(common.AuthorizationHeaderName)), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return common.NewPublicError(common.ErrUnauthorized, "Access token required")
	}

	claims, err := s.users.ValidateToken(c.UserContext(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			return common.NewPublicError(common.ErrTokenExpired, "Invalid or expired token")
		case common.IsAuthError(err):
			return common.NewPublicError(common.ErrInvalidToken, "Invalid or expired token")
		default:
			return err
		}
	}

	c.Locals(claimsLocal, claims)
	c.SetUserContext(WithIdentity(c.UserContext(), Identity{UserID: claims.UserID, Email: claims.Email}))
	return c.Next()
}

func newAuthLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "Too many requests"})
		},
	})
}
