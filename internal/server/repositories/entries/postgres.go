// Package entries provides the PostgreSQL-backed entry store.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/dbx"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
)

const entryColumns = `id, title, type, director, budget, location, duration, year_time, poster_url, created_at, user_id`

const searchClause = ` AND (title ILIKE $2 ESCAPE '\' OR director ILIKE $2 ESCAPE '\' OR type ILIKE $2 ESCAPE '\')`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// likePattern turns a search term into a case-insensitive "contains"
// pattern with LIKE wildcards in the term matched literally.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// Count returns how many entries of userID match search ("" matches all).
func (r *PostgresRepository) Count(ctx context.Context, userID int64, search string) (int, error) {
	query := `SELECT COUNT(*) FROM entries WHERE user_id = $1`
	args := []any{userID}
	if search != "" {
		query += searchClause
		args = append(args, likePattern(search))
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// List returns one page of matching entries, newest first with id as the
// tiebreak so pages never overlap.
func (r *PostgresRepository) List(ctx context.Context, userID int64, search string, limit, offset int) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1`
	args := []any{userID}
	if search != "" {
		query += searchClause
		args = append(args, likePattern(search))
	}
	n := len(args)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]models.Entry, 0, limit)
	for rows.Next() {
		var e models.Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND user_id = $2`

	e := &models.Entry{}
	if err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query :=
		`INSERT INTO entries (user_id, title, type, director, budget, location, duration, year_time, poster_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Title, entry.Type, entry.Director, entry.Budget,
		entry.Location, entry.Duration, entry.YearTime, entry.PosterURL,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// Update overwrites the editable fields of an owned entry in one statement.
func (r *PostgresRepository) Update(ctx context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error) {
	query :=
		`UPDATE entries SET title = $3, type = $4, director = $5, budget = $6,
		        location = $7, duration = $8, year_time = $9, poster_url = $10
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + entryColumns

	e := &models.Entry{}
	err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID,
		in.Title, in.Type, in.Director, in.Budget, in.Location, in.Duration, in.YearTime, in.PosterURL), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, e *models.Entry) error {
	return s.Scan(&e.ID, &e.Title, &e.Type, &e.Director, &e.Budget, &e.Location,
		&e.Duration, &e.YearTime, &e.PosterURL, &e.CreatedAt, &e.UserID)
}
