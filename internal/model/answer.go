package model

// Answer is one player's submission to a round. A round holds at most
// one answer per (player id, text) pair; duplicates are dropped on
// submission.
type Answer struct {
	PlayerName string `json:"playerName" bson:"playerName"`
	PlayerID   string `json:"playerId" bson:"playerId"`
	Text       string `json:"text" bson:"text"`
}
