package model

import "time"

// Player is a registered account. Score is the running total across all
// rounds; only the scoring aggregation adds to it.
type Player struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Score        int       `json:"score" bson:"score"`
	LastLogin    time.Time `json:"lastLogin" bson:"lastLogin"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// UserRef is the public shape of a player in responses. Key is the
// player id, or "undefined" when the caller's round reference was stale.
type UserRef struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// Ref returns the player's public reference.
func (p *Player) Ref() UserRef {
	return UserRef{Username: p.Username, Key: p.ID}
}
