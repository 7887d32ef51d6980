package rest

import (
	"errors"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/gofiber/fiber/v2"
)

type errorKind struct {
	err    error
	status int
	msg    string
}

// errorKinds is checked in order; the first match decides status and the
// fallback message.
var errorKinds = []errorKind{
	{common.ErrValidation, fiber.StatusBadRequest, "Invalid request"},
	{common.ErrConflict, fiber.StatusBadRequest, "Already exists"},
	{common.ErrInvalidCredentials, fiber.StatusBadRequest, "Invalid credentials"},
	{common.ErrTokenExpired, fiber.StatusUnauthorized, "Invalid or expired token"},
	{common.ErrInvalidToken, fiber.StatusUnauthorized, "Invalid or expired token"},
	{common.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
	{common.ErrNotFound, fiber.StatusNotFound, "Not found"},
}

// statusFor maps an error to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			msg := k.msg
			var pe *common.PublicError
			if errors.As(err, &pe) {
				msg = pe.Msg
			}
			return k.status, msg
		}
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals(requestIDLocal),
		)
	}
	return c.Status(status).JSON(errorBody{Error: msg})
}
