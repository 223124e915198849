package profiles

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
	AdjustCounter(ctx context.Context, id string, polarity models.Polarity, delta int) error
	Popular(ctx context.Context, limit int) ([]models.Profile, error)
	SetPreviewKey(ctx context.Context, id string, key string) error
}
