package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (string, error)
	FindByID(ctx context.Context, id string) (*models.File, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	FindPage(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error)
	UpdateVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
