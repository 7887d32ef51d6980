package rest

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// decodeBody reads an optional JSON body; an empty body leaves dst zeroed.
func decodeBody(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return common.NewPublicError(common.ErrValidation, "Invalid JSON body")
	}
	return nil
}

// entryID parses :id. Anything that is not a positive integer cannot name
// an entry and is reported as not found.
func entryID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewPublicError(common.ErrNotFound, "Entry not found")
	}
	return id, nil
}

func (s *HTTPServer) info(c *fiber.Ctx) error {
	return c.JSON(infoResponse{
		Name:    "CineCollection API",
		Version: Version,
		Endpoints: map[string]string{
			"register": "POST /api/auth/register",
			"login":    "POST /api/auth/login",
			"me":       "GET /api/auth/me",
			"entries":  "GET|POST /api/entries",
			"entry":    "GET|PUT|DELETE /api/entries/:id",
			"health":   "GET /api/healthz",
		},
	})
}

func (s *HTTPServer) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(healthResponse{Status: "unavailable"})
	}
	return c.JSON(healthResponse{Status: "ok"})
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	res, err := s.users.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Message: "User created successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	res, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User,
	})
}

func (s *HTTPServer) me(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	u, err := s.users.Me(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(meResponse{User: *u})
}

func (s *HTTPServer) listEntries(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	page, err := s.entries.List(c.UserContext(), id.UserID, models.ListQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
		Search: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (s *HTTPServer) getEntry(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	eid, err := entryID(c)
	if err != nil {
		return err
	}

	e, err := s.entries.Get(c.UserContext(), id.UserID, eid)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (s *HTTPServer) createEntry(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var in models.EntryInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	e, err := s.entries.Create(c.UserContext(), id.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *HTTPServer) updateEntry(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	eid, err := entryID(c)
	if err != nil {
		return err
	}
	var in models.EntryInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	e, err := s.entries.Update(c.UserContext(), id.UserID, eid, in)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (s *HTTPServer) deleteEntry(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	eid, err := entryID(c)
	if err != nil {
		return err
	}

	if err := s.entries.Delete(c.UserContext(), id.UserID, eid); err != nil {
		return err
	}
	return c.JSON(messageBody{Message: "Entry deleted successfully"})
}

func (s *HTTPServer) posterUpload(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req posterUploadRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	up, err := s.entries.PosterUploadURL(c.UserContext(), id.UserID, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(up)
}
