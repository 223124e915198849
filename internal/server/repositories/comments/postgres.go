// Package comments provides the PostgreSQL-backed repository for profile
// comments.
package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (profile_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, c.ProfileID, c.UserID, c.Content).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ListByProfile returns a page of comments on a profile, newest first.
func (r *PostgresRepository) ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]models.Comment, error) {
	query :=
		`SELECT c.id, c.profile_id, c.user_id, u.username, c.content, c.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.profile_id = $1
		 ORDER BY c.created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByProfile(ctx context.Context, profileID string) (int64, error) {
	query := `SELECT COUNT(*) FROM comments WHERE profile_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, profileID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
