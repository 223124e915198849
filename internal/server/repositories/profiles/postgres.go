// Package profiles provides the PostgreSQL-backed repository for shared
// profiles and their reaction counters.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
)

// counterColumns is the only source of column names interpolated into SQL.
var counterColumns = map[models.Polarity]string{
	models.PolarityLike:    "like_count",
	models.PolarityDislike: "dislike_count",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (user_id, name, description, json_content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.Description, p.JSONContent).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

const selectProfile = `SELECT p.id, p.user_id, u.username, p.name, p.description, p.json_content,
		 p.preview_image_key, p.like_count, p.dislike_count,
		 (SELECT COUNT(*) FROM comments c WHERE c.profile_id = p.id),
		 p.created_at
		 FROM profiles p
		 JOIN users u ON u.id = p.user_id
		 `

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.Scan(&p.ID, &p.UserID, &p.UserName, &p.Name, &p.Description, &p.JSONContent,
		&p.PreviewImageKey, &p.LikeCount, &p.DislikeCount, &p.CommentCount, &p.CreatedAt)
	return p, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, selectProfile+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// AdjustCounter adds delta to the counter matching polarity as a relative
// update, so concurrent adjustments on the same row never overwrite each
// other.
func (r *PostgresRepository) AdjustCounter(ctx context.Context, id string, polarity models.Polarity, delta int) error {
	col, ok := counterColumns[polarity]
	if !ok {
		return common.ErrInvalidPolarity
	}

	query := fmt.Sprintf(`UPDATE profiles SET %[1]s = %[1]s + $2 WHERE id = $1`, col)

	res, err := r.db.ExecContext(ctx, query, id, delta)
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

// Popular returns up to limit profiles ordered by like count, newest first
// among equals.
func (r *PostgresRepository) Popular(ctx context.Context, limit int) ([]models.Profile, error) {
	query := selectProfile + `ORDER BY p.like_count DESC, p.created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetPreviewKey(ctx context.Context, id string, key string) error {
	query := `UPDATE profiles SET preview_image_key = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("db error: %w", err)
	} else if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
