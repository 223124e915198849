package models

import "time"

// Profile is a shared profile. LikeCount and DislikeCount are denormalized
// from the reactions table and only change together with it.
type Profile struct {
	ID              string
	UserID          string
	UserName        string
	Name            string
	Description     string
	JSONContent     string
	PreviewImageKey string
	LikeCount       int64
	DislikeCount    int64
	CommentCount    int64
	CreatedAt       time.Time
}

type Comment struct {
	ID        string
	ProfileID string
	UserID    string
	UserName  string
	Content   string
	CreatedAt time.Time
}
