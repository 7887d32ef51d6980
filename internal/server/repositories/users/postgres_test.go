package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertRe  = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*name,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at$`
	byEmailRe = `(?s)^SELECT\s+id,\s*email,\s*name,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`
	byIDRe    = `(?s)^SELECT\s+id,\s*email,\s*name,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
)

var userCols = []string{"id", "email", "name", "password_hash", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertRe).
			WithArgs("ann@example.com", "Ann", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), ts))

		got, err := repo.Create(context.Background(), &models.User{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.ID)
		assert.Equal(t, ts, got.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertRe).
			WithArgs("ann@example.com", "Ann", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Create(context.Background(), &models.User{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"})
		require.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertRe).WillReturnError(errors.New("db down"))

		_, err := repo.Create(context.Background(), &models.User{Email: "x", Name: "x", PasswordHash: "x"})
		require.ErrorContains(t, err, "db error: db down")
		require.NotErrorIs(t, err, common.ErrConflict)
	})
}

func TestGetByEmail(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byEmailRe).
			WithArgs("ann@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "ann@example.com", "Ann", "hash", ts))

		u, err := repo.GetByEmail(context.Background(), "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, &models.User{ID: 1, Email: "ann@example.com", Name: "Ann", PasswordHash: "hash", CreatedAt: ts}, u)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byEmailRe).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(byEmailRe).WillReturnError(errors.New("boom"))

		_, err := repo.GetByEmail(context.Background(), "ann@example.com")
		require.ErrorContains(t, err, "db error: boom")
	})
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(byIDRe).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, common.ErrNotFound)
}
