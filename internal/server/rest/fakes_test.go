package rest

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/dmitrijs2005/cinecollection/internal/server/auth"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/dmitrijs2005/cinecollection/internal/server/services"
)

const (
	tokenAnn     = "token-ann"
	tokenBob     = "token-bob"
	tokenExpired = "token-expired"
)

type fakeUsers struct{}

func (fakeUsers) Register(_ context.Context, email, password, name string) (*services.AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return nil, common.NewPublicError(common.ErrValidation, "Email, password, and name are required")
	}
	if email == "ann@example.com" {
		return nil, common.NewPublicError(common.ErrConflict, "User already exists")
	}
	return &services.AuthResult{Token: "new-token", User: models.UserView{ID: 3, Email: email, Name: name}}, nil
}

func (fakeUsers) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if email == "ann@example.com" && password == "secret" {
		return &services.AuthResult{Token: tokenAnn, User: models.UserView{ID: 1, Email: email, Name: "Ann"}}, nil
	}
	if email == "boom@example.com" {
		return nil, errors.New("pq: connection reset; secret dsn details")
	}
	return nil, common.NewPublicError(common.ErrInvalidCredentials, "Invalid credentials")
}

func (fakeUsers) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	switch token {
	case tokenAnn:
		return &auth.Claims{UserID: 1, Email: "ann@example.com"}, nil
	case tokenBob:
		return &auth.Claims{UserID: 2, Email: "bob@example.com"}, nil
	case tokenExpired:
		return nil, common.ErrTokenExpired
	}
	return nil, common.ErrInvalidToken
}

func (fakeUsers) Me(_ context.Context, userID int64) (*models.UserView, error) {
	if userID == 1 {
		return &models.UserView{ID: 1, Email: "ann@example.com", Name: "Ann"}, nil
	}
	return nil, common.NewPublicError(common.ErrNotFound, "User not found")
}

type fakeEntries struct {
	mu        sync.Mutex
	rows      map[int64]models.Entry
	next      int64
	lastQuery models.ListQuery
	panicOn   string
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{rows: map[int64]models.Entry{}}
}

func (f *fakeEntries) List(_ context.Context, userID int64, q models.ListQuery) (*models.EntryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	out := []models.Entry{}
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return &models.EntryPage{Entries: out, CurrentPage: 1, TotalPages: 1, TotalEntries: len(out)}, nil
}

func (f *fakeEntries) Get(_ context.Context, userID, id int64) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn == "get" {
		panic("nil map somewhere deep")
	}
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return nil, common.NewPublicError(common.ErrNotFound, "Entry not found")
	}
	return &e, nil
}

func (f *fakeEntries) Create(_ context.Context, userID int64, in models.EntryInput) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Title == "" || in.Type == "" || in.Director == "" {
		return nil, common.NewPublicError(common.ErrValidation, "Title, type, and director are required")
	}
	f.next++
	e := models.Entry{ID: f.next, UserID: userID, Title: in.Title, Type: in.Type, Director: in.Director, YearTime: in.YearTime}
	f.rows[e.ID] = e
	return &e, nil
}

func (f *fakeEntries) Update(_ context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Title == "" || in.Type == "" || in.Director == "" {
		return nil, common.NewPublicError(common.ErrValidation, "Title, type, and director are required")
	}
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return nil, common.NewPublicError(common.ErrNotFound, "Entry not found")
	}
	e.Title, e.Type, e.Director = in.Title, in.Type, in.Director
	f.rows[id] = e
	return &e, nil
}

func (f *fakeEntries) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return common.NewPublicError(common.ErrNotFound, "Entry not found")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeEntries) PosterUploadURL(_ context.Context, userID int64, ct string) (*models.PosterUpload, error) {
	return &models.PosterUpload{Key: "posters/1/x", UploadURL: "http://s3/put?sig", PosterURL: "http://s3/posters/1/x"}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestServer(opts Options) (*HTTPServer, *fakeEntries) {
	fe := newFakeEntries()
	return NewHTTPServer(":0", logging.Nop{}, fakeUsers{}, fe, fakePinger{}, opts), fe
}
