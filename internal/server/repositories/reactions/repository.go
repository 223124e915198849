package reactions

import (
	"context"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

type Repository interface {
	// LockPair serializes work on one (user, profile) pair until the
	// surrounding transaction ends.
	LockPair(ctx context.Context, userID, profileID string) error
	Find(ctx context.Context, userID, profileID string) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id string) error
}
