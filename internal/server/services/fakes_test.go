package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/dbx"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/entries"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memUsers is an in-memory users.Repository with a unique email index.
type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, x := range m.byID {
		if x.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, x := range m.byID {
		if x.Email == email {
			cp := *x
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	x, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *x
	return &cp, nil
}

// memEntries is an in-memory entries.Repository mirroring the SQL semantics:
// owner scoping, case-insensitive contains search, newest first.
type memEntries struct {
	mu      sync.Mutex
	rows    []models.Entry
	nextID  int64
	clock   time.Time
	err     error
	offsets []int
}

func newMemEntries() *memEntries {
	return &memEntries{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memEntries) match(e models.Entry, userID int64, search string) bool {
	if e.UserID != userID {
		return false
	}
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(e.Title), s) ||
		strings.Contains(strings.ToLower(e.Director), s) ||
		strings.Contains(strings.ToLower(e.Type), s)
}

func (m *memEntries) Count(_ context.Context, userID int64, search string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, e := range m.rows {
		if m.match(e, userID, search) {
			n++
		}
	}
	return n, nil
}

func (m *memEntries) List(_ context.Context, userID int64, search string, limit, offset int) ([]models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.offsets = append(m.offsets, offset)
	if offset < 0 || limit < 0 {
		return nil, errors.New("OFFSET must not be negative")
	}
	var hits []models.Entry
	for _, e := range m.rows {
		if m.match(e, userID, search) {
			hits = append(hits, e)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		}
		return hits[i].ID > hits[j].ID
	})
	out := []models.Entry{}
	for i := offset; i < len(hits) && i < offset+limit; i++ {
		out = append(out, hits[i])
	}
	return out, nil
}

func (m *memEntries) Get(_ context.Context, userID, id int64) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rows {
		if e.ID == id && e.UserID == userID {
			cp := e
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memEntries) Create(_ context.Context, e *models.Entry) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	e.ID = m.nextID
	e.CreatedAt = m.clock
	m.rows = append(m.rows, *e)
	return e, nil
}

func (m *memEntries) Update(_ context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.rows {
		if e.ID == id && e.UserID == userID {
			e.Title, e.Type, e.Director = in.Title, in.Type, in.Director
			e.Budget, e.Location, e.Duration = in.Budget, in.Location, in.Duration
			e.YearTime, e.PosterURL = in.YearTime, in.PosterURL
			m.rows[i] = e
			cp := e
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memEntries) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.rows {
		if e.ID == id && e.UserID == userID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeRepoManager struct {
	u *memUsers
	e *memEntries
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.u }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository        { return m.e }
