// Package reactions provides the PostgreSQL-backed repository for the
// like/dislike records of users on profiles.
package reactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LockPair takes a transaction-scoped advisory lock keyed by the pair. It
// must run inside a transaction; the lock is released on commit or rollback.
func (r *PostgresRepository) LockPair(ctx context.Context, userID, profileID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	if _, err := r.db.ExecContext(ctx, query, userID+":"+profileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, profileID string) (*models.Reaction, error) {
	query :=
		`SELECT id, polarity FROM reactions
		 WHERE user_id = $1 AND profile_id = $2
		 `

	reaction := &models.Reaction{UserID: userID, ProfileID: profileID}
	err := r.db.QueryRowContext(ctx, query, userID, profileID).Scan(&reaction.ID, &reaction.Polarity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reaction, nil
}

// Create inserts the reaction, assigning an ID when it has none. A second
// reaction for the same pair violates the unique index.
func (r *PostgresRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if reaction.ID == "" {
		reaction.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO reactions (id, user_id, profile_id, polarity)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		reaction.ID, reaction.UserID, reaction.ProfileID, string(reaction.Polarity)); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the reaction. It reports common.ErrorNotFound when the row
// is already gone.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM reactions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
