package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
)

const (
	DefaultCommentPageSize = 10
	MaxCommentPageSize     = 100
	MaxCommentLength       = 2000
)

// CommentPage is one page of a profile's comments, newest first.
type CommentPage struct {
	Comments   []models.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// Add stores a comment. Content is trimmed and must not end up empty.
func (s *CommentService) Add(ctx context.Context, userID, profileID, content string) (*models.Comment, error) {
	if userID == "" {
		return nil, common.ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", common.ErrorValidation)
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, fmt.Errorf("%w: comment is longer than %d characters", common.ErrorValidation, MaxCommentLength)
	}
	profileID, err := s.ensureProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	c, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{
		ProfileID: profileID,
		UserID:    userID,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}

// List returns the requested page. Pages start at 1; non-positive values
// fall back to the defaults.
func (s *CommentService) List(ctx context.Context, profileID string, page, limit int) (*CommentPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultCommentPageSize
	}
	if limit > MaxCommentPageSize {
		limit = MaxCommentPageSize
	}
	// Keeps the offset inside the int range of any platform.
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	profileID, err := s.ensureProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Comments(s.db)
	total, err := repo.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error counting comments: %w", err)
	}
	list, err := repo.ListByProfile(ctx, profileID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("error loading comments: %w", err)
	}

	return &CommentPage{
		Comments:   list,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *CommentService) ensureProfile(ctx context.Context, profileID string) (string, error) {
	id, err := canonicalProfileID(profileID)
	if err != nil {
		return "", err
	}
	exists, err := s.repomanager.Profiles(s.db).Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("error checking profile: %w", err)
	}
	if !exists {
		return "", common.ErrProfileNotFound
	}
	return id, nil
}
