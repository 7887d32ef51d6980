package entries

import (
	"context"

	"github.com/dmitrijs2005/cinecollection/internal/server/models"
)

// Repository is the entry store. Every method is scoped by owner; rows that
// belong to someone else behave as if they did not exist.
type Repository interface {
	Count(ctx context.Context, userID int64, search string) (int, error)
	List(ctx context.Context, userID int64, search string, limit, offset int) ([]models.Entry, error)
	Get(ctx context.Context, userID, id int64) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, userID, id int64, in models.EntryInput) (*models.Entry, error)
	Delete(ctx context.Context, userID, id int64) error
}
