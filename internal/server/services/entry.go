package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/dbx"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
	"github.com/dmitrijs2005/cinecollection/internal/server/config"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/repomanager"
)

// PosterStore hands out upload slots for poster images.
type PosterStore interface {
	PresignUpload(ctx context.Context, userID int64, contentType string) (*models.PosterUpload, error)
}

type EntryService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	posters         PosterStore
	defaultPageSize int
	maxPageSize     int
	log             logging.Logger
}

// NewEntryService builds the catalog service. posters may be nil, in which
// case PosterUploadURL reports ErrNotFound.
func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, posters PosterStore, cfg *config.Config, log logging.Logger) *EntryService {
	defSize, maxSize := cfg.DefaultPageSize, cfg.MaxPageSize
	if defSize < 1 {
		defSize = common.DefaultPageSize
	}
	if maxSize < defSize {
		maxSize = defSize
	}
	return &EntryService{
		db:              db,
		repomanager:     m,
		posters:         posters,
		defaultPageSize: defSize,
		maxPageSize:     maxSize,
		log:             log.With("module", "entries"),
	}
}

func (s *EntryService) normalize(q models.ListQuery) (models.ListQuery, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = s.defaultPageSize
	}
	if q.Limit > s.maxPageSize {
		return q, common.NewPublicError(common.ErrValidation, fmt.Sprintf("Limit must be at most %d", s.maxPageSize))
	}
	q.Search = strings.TrimSpace(q.Search)
	return q, nil
}

// List returns one page of the user's catalog. The count and the page are
// read from the same snapshot so TotalEntries always agrees with Entries.
func (s *EntryService) List(ctx context.Context, userID int64, q models.ListQuery) (*models.EntryPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	page := &models.EntryPage{Entries: []models.Entry{}, CurrentPage: q.Page}

	err = dbx.WithTx(ctx, s.db, dbx.ReadSnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)

		total, err := repo.Count(ctx, userID, q.Search)
		if err != nil {
			return err
		}
		page.TotalEntries = total
		// compared by page index so a huge page cannot overflow the offset
		if total == 0 || q.Page-1 > (total-1)/q.Limit {
			return nil
		}

		items, err := repo.List(ctx, userID, q.Search, q.Limit, (q.Page-1)*q.Limit)
		if err != nil {
			return err
		}
		page.Entries = items
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	page.TotalPages = (page.TotalEntries + q.Limit - 1) / q.Limit
	page.HasMore = page.CurrentPage < page.TotalPages
	return page, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id int64) (*models.Entry, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, entryErr(err)
	}
	return e, nil
}

func (s *EntryService) Create(ctx context.Context, userID int64, in models.EntryInput) (*models.Entry, error) {
	in, err := validateEntry(in)
	if err != nil {
		return nil, err
	}

	e, err := s.repomanager.Entries(s.db).Create(ctx, &models.Entry{
		UserID:    userID,
		Title:     in.Title,
		Type:      in.Type,
		Director:  in.Director,
		Budget:    in.Budget,
		Location:  in.Location,
		Duration:  in.Duration,
		YearTime:  in.YearTime,
		PosterURL: in.PosterURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.log.Debug(ctx, "entry created", "user_id", userID, "entry_id", e.ID)
	return e, nil
}

// Update replaces the editable fields of an owned entry. Validation runs
// before the ownership check, so invalid input on a foreign id is a 400.
func (s *EntryService) Update(ctx context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error) {
	in, err := validateEntry(in)
	if err != nil {
		return nil, err
	}

	e, err := s.repomanager.Entries(s.db).Update(ctx, userID, id, in)
	if err != nil {
		return nil, entryErr(err)
	}
	return e, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, id); err != nil {
		return entryErr(err)
	}
	s.log.Debug(ctx, "entry deleted", "user_id", userID, "entry_id", id)
	return nil
}

// PosterUploadURL issues a presigned upload slot for a poster image.
func (s *EntryService) PosterUploadURL(ctx context.Context, userID int64, contentType string) (*models.PosterUpload, error) {
	if s.posters == nil {
		return nil, common.NewPublicError(common.ErrNotFound, "Poster uploads are not configured")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, common.NewPublicError(common.ErrValidation, "Poster content type must be an image")
	}

	up, err := s.posters.PresignUpload(ctx, userID, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign poster upload: %w", err)
	}
	return up, nil
}

func validateEntry(in models.EntryInput) (models.EntryInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Director = strings.TrimSpace(in.Director)
	in.Type = strings.TrimSpace(in.Type)
	if in.Title == "" || in.Type == "" || in.Director == "" {
		return in, common.NewPublicError(common.ErrValidation, "Title, type, and director are required")
	}

	t, ok := models.CanonicalType(in.Type)
	if !ok {
		return in, common.NewPublicError(common.ErrValidation, `Type must be "Movie" or "TV Show"`)
	}
	in.Type = t
	return in, nil
}

func entryErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NewPublicError(common.ErrNotFound, "Entry not found")
	}
	return err
}
