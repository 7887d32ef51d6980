// Package services contains the server-side business logic: accounts and
// session tokens (UserService), the per-user catalog (EntryService) and
// poster storage (S3PosterStore).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/dmitrijs2005/cinecollection/internal/server/auth"
	"github.com/dmitrijs2005/cinecollection/internal/server/config"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/repomanager"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	jwtSecret   []byte
	tokenTTL    time.Duration
	now         func() time.Time
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewPasswordHasher(cfg.BcryptCost),
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenValidityDuration,
		now:         time.Now,
		log:         log.With("module", "users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs the caller in.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, common.NewPublicError(common.ErrValidation, "Email, password, and name are required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.NewPublicError(common.ErrValidation,
			fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewPublicError(common.ErrConflict, "User already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password fail the same
// way, and both cost one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewPublicError(common.ErrValidation, "Email and password are required")
	}

	invalid := common.NewPublicError(common.ErrInvalidCredentials, "Invalid credentials")

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Burn(password)
			return nil, invalid
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, invalid
	}

	return s.issue(user)
}

// ValidateToken checks a session token against the current time.
func (s *UserService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret, s.now())
}

// Me returns the public view of the account behind a validated token.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.UserView, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewPublicError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	v := user.View()
	return &v, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user.View()}, nil
}
