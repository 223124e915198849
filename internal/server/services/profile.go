package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/logging"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	DefaultPopularLimit = 3
	MaxPopularLimit     = 50

	previewKeyPrefix = "profiles"
)

// MediaSigner hands out presigned object storage URLs.
type MediaSigner interface {
	PresignedPutURL(ctx context.Context, prefix string) (key string, url string, err error)
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// CreateProfileInput is the profile creation form.
type CreateProfileInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	JSONContent string `json:"jsonContent"`
}

func (r CreateProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.JSONContent, is.JSON),
	)
}

// ProfileView is a profile with a download URL for its preview image.
type ProfileView struct {
	models.Profile
	PreviewURL string
}

// PreviewUpload tells the owner where to PUT a new preview image.
type PreviewUpload struct {
	Key string
	URL string
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaSigner
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, media MediaSigner, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		media:       media,
		logger:      logger,
	}
}

func (s *ProfileService) Create(ctx context.Context, userID string, in CreateProfileInput) (*models.Profile, error) {
	if userID == "" {
		return nil, common.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	p, err := s.repomanager.Profiles(s.db).Create(ctx, &models.Profile{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		JSONContent: in.JSONContent,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*ProfileView, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p), nil
}

// Popular returns the most liked profiles. Out of range limits fall back to
// DefaultPopularLimit or are capped at MaxPopularLimit.
func (s *ProfileService) Popular(ctx context.Context, limit int) ([]ProfileView, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	list, err := s.repomanager.Profiles(s.db).Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading popular profiles: %w", err)
	}

	views := make([]ProfileView, 0, len(list))
	for i := range list {
		views = append(views, *s.view(ctx, &list[i]))
	}
	return views, nil
}

// PreviewUploadURL allocates a new preview image key for the profile and
// returns a presigned PUT URL for it. Only the owner may do this.
func (s *ProfileService) PreviewUploadURL(ctx context.Context, userID, profileID string) (*PreviewUpload, error) {
	if userID == "" {
		return nil, common.ErrUnauthenticated
	}
	p, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, common.ErrForbidden
	}

	key, url, err := s.media.PresignedPutURL(ctx, previewKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	if err := s.repomanager.Profiles(s.db).SetPreviewKey(ctx, p.ID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error saving preview key: %w", err)
	}
	return &PreviewUpload{Key: key, URL: url}, nil
}

func (s *ProfileService) load(ctx context.Context, id string) (*models.Profile, error) {
	id, err := canonicalProfileID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repomanager.Profiles(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

// view attaches a preview URL. A failing object store degrades to a profile
// without a preview rather than failing the request.
func (s *ProfileService) view(ctx context.Context, p *models.Profile) *ProfileView {
	v := &ProfileView{Profile: *p}
	if p.PreviewImageKey == "" {
		return v
	}
	url, err := s.media.PresignedGetURL(ctx, p.PreviewImageKey)
	if err != nil {
		s.logger.Warn(ctx, "presign preview failed", "profile_id", p.ID, "error", err)
		return v
	}
	v.PreviewURL = url
	return v
}
