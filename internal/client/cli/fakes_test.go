package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/client/client"
	"github.com/dmitrijs2005/cinecollection/internal/client/config"
	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/dmitrijs2005/cinecollection/internal/client/session"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI keeps a catalog in memory, newest entry first.
type fakeAPI struct {
	mu      sync.Mutex
	token   string
	entries []models.Entry
	nextID  int64

	user     models.UserView
	loginErr error
	meErr    error
	getErr   error

	posterCT   string
	posterData []byte
	calls      []string
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{user: models.UserView{ID: 1, Email: "ann@example.com", Name: "Ann"}}
	for i := 1; i <= n; i++ {
		f.add(models.EntryInput{Title: fmt.Sprintf("Movie %d", i), Type: models.TypeMovie, Director: "Someone"})
	}
	return f
}

func (f *fakeAPI) add(in models.EntryInput) models.Entry {
	f.nextID++
	e := models.Entry{
		ID: f.nextID, Title: in.Title, Type: in.Type, Director: in.Director, Budget: in.Budget,
		Location: in.Location, Duration: in.Duration, YearTime: in.YearTime, PosterURL: in.PosterURL,
		UserID: 1,
	}
	f.entries = append([]models.Entry{e}, f.entries...)
	return e
}

func (f *fakeAPI) record(c string) {
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) Register(_ context.Context, email, _, name string) (*client.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("register")
	f.user = models.UserView{ID: 2, Email: email, Name: name}
	return &client.AuthResult{Token: "reg-token", User: f.user}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*client.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login " + email + " " + password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.AuthResult{Token: "login-token", User: f.user}, nil
}

func (f *fakeAPI) Me(context.Context) (*models.UserView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) ListEntries(_ context.Context, page, limit int, search string) (*models.EntryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("list %d %d %q", page, limit, search))

	var matched []models.Entry
	for _, e := range f.entries {
		if search == "" || strings.Contains(strings.ToLower(e.Title), strings.ToLower(search)) {
			matched = append(matched, e)
		}
	}
	from, to := (page-1)*limit, page*limit
	from = min(from, len(matched))
	to = min(to, len(matched))
	pages := (len(matched) + limit - 1) / limit
	return &models.EntryPage{
		Entries:      append([]models.Entry{}, matched[from:to]...),
		CurrentPage:  page,
		TotalPages:   pages,
		TotalEntries: len(matched),
		HasMore:      page < pages,
	}, nil
}

func (f *fakeAPI) find(id int64) (int, error) {
	for i, e := range f.entries {
		if e.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: Entry not found", client.ErrNotFound)
}

func (f *fakeAPI) GetEntry(_ context.Context, id int64) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("get %d", id))
	if f.getErr != nil {
		return nil, f.getErr
	}
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	e := f.entries[i]
	return &e, nil
}

func (f *fakeAPI) CreateEntry(_ context.Context, in models.EntryInput) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	e := f.add(in)
	return &e, nil
}

func (f *fakeAPI) UpdateEntry(_ context.Context, id int64, in models.EntryInput) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("update %d", id))
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	e := &f.entries[i]
	e.Title, e.Type, e.Director, e.Budget = in.Title, in.Type, in.Director, in.Budget
	e.Location, e.Duration, e.YearTime, e.PosterURL = in.Location, in.Duration, in.YearTime, in.PosterURL
	out := *e
	return &out, nil
}

func (f *fakeAPI) DeleteEntry(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("delete %d", id))
	i, err := f.find(id)
	if err != nil {
		return err
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return nil
}

func (f *fakeAPI) PosterUpload(_ context.Context, contentType string) (*models.PosterUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("poster-upload " + contentType)
	return &models.PosterUpload{
		Key:       "posters/1/2026/10/abc",
		UploadURL: "http://s3.local/bucket/posters/1/2026/10/abc?sig=1",
		PosterURL: "http://cdn.local/posters/1/2026/10/abc",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeAPI) UploadPoster(_ context.Context, _ *models.PosterUpload, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upload")
	f.posterCT, f.posterData = contentType, data
	return nil
}

type memStore struct {
	sess    *session.Session
	cleared int
}

func (m *memStore) Load(context.Context) (*session.Session, error) {
	if m.sess == nil {
		return nil, nil
	}
	s := *m.sess
	return &s, nil
}

func (m *memStore) Save(_ context.Context, s *session.Session) error {
	c := *s
	m.sess = &c
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.sess = nil
	m.cleared++
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ScrollThrottle = time.Nanosecond
	return cfg
}

// newTestApp builds an App reading input from lines and writing to out.
func newTestApp(t *testing.T, api *fakeAPI, store *memStore, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	a := newApp(testConfig(), api, store, logging.Nop{}, r, out)
	t.Cleanup(a.Close)
	return a, out
}

func loggedIn(t *testing.T, api *fakeAPI, store *memStore, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApp(t, api, store, lines...)
	require.NoError(t, a.startSession(context.Background(), &client.AuthResult{Token: "tok", User: api.user}))
	return a, out
}
