package comments

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]models.Comment, error)
	CountByProfile(ctx context.Context, profileID string) (int64, error)
}
