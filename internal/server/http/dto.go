package http

import (
	"time"

	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type userResponse struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Bio       string    `json:"bio"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.AvatarKey,
		Role:      u.RoleName,
		Verified:  u.Verified,
		Bio:       u.Bio,
		Disabled:  u.Disabled,
		CreatedAt: u.CreatedAt,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type profileResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	JSONContent     string    `json:"jsonContent,omitempty"`
	PreviewImageURL string    `json:"previewImageUrl,omitempty"`
	LikeCount       int64     `json:"likeCount"`
	DislikeCount    int64     `json:"dislikeCount"`
	CommentCount    int64     `json:"commentCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toProfileResponse(v *services.ProfileView) profileResponse {
	return profileResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		UserName:        v.UserName,
		Name:            v.Name,
		Description:     v.Description,
		JSONContent:     v.JSONContent,
		PreviewImageURL: v.PreviewURL,
		LikeCount:       v.LikeCount,
		DislikeCount:    v.DislikeCount,
		CommentCount:    v.CommentCount,
		CreatedAt:       v.CreatedAt,
	}
}

type commentResponse struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		ProfileID: c.ProfileID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

type commentPageResponse struct {
	Comments   []commentResponse `json:"comments"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int64             `json:"totalPages"`
}

type roleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
