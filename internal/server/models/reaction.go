package models

import "time"

// Polarity is the kind of a reaction.
type Polarity string

const (
	PolarityLike    Polarity = "like"
	PolarityDislike Polarity = "dislike"
)

// Valid reports whether p is one of the known polarities.
func (p Polarity) Valid() bool {
	return p == PolarityLike || p == PolarityDislike
}

// Reaction is a single user's like or dislike of a profile. There is at
// most one per (UserID, ProfileID).
type Reaction struct {
	ID        string
	UserID    string
	ProfileID string
	Polarity  Polarity
	CreatedAt time.Time
}

// ReactionState is what a user currently holds on a profile.
type ReactionState struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}

// StateOf maps an optional polarity to the externally visible state.
func StateOf(p *Polarity) ReactionState {
	if p == nil {
		return ReactionState{}
	}
	return ReactionState{Liked: *p == PolarityLike, Disliked: *p == PolarityDislike}
}
