package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
)

// ReactionService applies like/dislike toggles. A user holds at most one
// reaction per profile, and the profile counters always equal the number of
// reaction records of each polarity.
type ReactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReactionService(db *sql.DB, m repomanager.RepositoryManager) *ReactionService {
	return &ReactionService{db: db, repomanager: m}
}

// Toggle applies polarity for the user on the profile and returns the
// resulting state:
//   - no reaction: record it
//   - same polarity: remove it
//   - opposite polarity: replace it
//
// The reaction record and both counters change in a single transaction that
// holds a lock on the (user, profile) pair, so concurrent toggles by the same
// user are applied one after another and toggles by different users only
// meet at the profile row. A reaction that vanished or appeared underneath
// the transaction aborts it with common.ErrReactionConflict.
func (s *ReactionService) Toggle(ctx context.Context, userID, profileID string, polarity models.Polarity) (models.ReactionState, error) {
	if userID == "" {
		return models.ReactionState{}, common.ErrUnauthenticated
	}
	if !polarity.Valid() {
		return models.ReactionState{}, common.ErrInvalidPolarity
	}
	profileID, err := canonicalProfileID(profileID)
	if err != nil {
		return models.ReactionState{}, err
	}

	var state models.ReactionState
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reactions := s.repomanager.Reactions(tx)
		profiles := s.repomanager.Profiles(tx)

		if err := reactions.LockPair(ctx, userID, profileID); err != nil {
			return fmt.Errorf("error locking reaction: %w", err)
		}

		exists, err := profiles.Exists(ctx, profileID)
		if err != nil {
			return fmt.Errorf("error checking profile: %w", err)
		}
		if !exists {
			return common.ErrProfileNotFound
		}

		current, err := reactions.Find(ctx, userID, profileID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error loading reaction: %w", err)
		}

		if current != nil {
			if err := reactions.Delete(ctx, current.ID); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return common.ErrReactionConflict
				}
				return fmt.Errorf("error deleting reaction: %w", err)
			}
			if err := adjustCounter(ctx, profiles, profileID, current.Polarity, -1); err != nil {
				return err
			}
			if current.Polarity == polarity {
				state = models.ReactionState{}
				return nil
			}
		}

		if err := reactions.Create(ctx, &models.Reaction{UserID: userID, ProfileID: profileID, Polarity: polarity}); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrReactionConflict
			}
			return fmt.Errorf("error creating reaction: %w", err)
		}
		if err := adjustCounter(ctx, profiles, profileID, polarity, 1); err != nil {
			return err
		}
		state = models.StateOf(&polarity)
		return nil
	})
	if err != nil {
		return models.ReactionState{}, err
	}
	return state, nil
}

type counterAdjuster interface {
	AdjustCounter(ctx context.Context, id string, polarity models.Polarity, delta int) error
}

func adjustCounter(ctx context.Context, profiles counterAdjuster, profileID string, polarity models.Polarity, delta int) error {
	if err := profiles.AdjustCounter(ctx, profileID, polarity, delta); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrProfileNotFound
		}
		return fmt.Errorf("error updating %s counter: %w", polarity, err)
	}
	return nil
}
