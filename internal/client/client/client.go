package client

import (
	"context"

	"github.com/dmitrijs2005/cinecollection/internal/client/models"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.UserView `json:"user"`
}

// API is the surface of the CineCollection server used by the CLI.
type API interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context) (*models.UserView, error)
	ListEntries(ctx context.Context, page, limit int, search string) (*models.EntryPage, error)
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	CreateEntry(ctx context.Context, in models.EntryInput) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id int64, in models.EntryInput) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	PosterUpload(ctx context.Context, contentType string) (*models.PosterUpload, error)
	UploadPoster(ctx context.Context, up *models.PosterUpload, contentType string, data []byte) error
}
