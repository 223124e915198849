package roles

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

type Repository interface {
	FindOrCreate(ctx context.Context, name string) (*models.Role, error)
	GetByID(ctx context.Context, id string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}
