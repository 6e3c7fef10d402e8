package model

import "time"

// SnapshotKind tags the phase a status snapshot was computed for.
type SnapshotKind string

const (
	// SnapshotLive is the cheap tally computed while the round is open.
	SnapshotLive SnapshotKind = "live"
	// SnapshotFinal is the scored snapshot computed once the round
	// enters its scoring phase. It is produced at most once per round.
	SnapshotFinal SnapshotKind = "final"
)

// StatusSnapshot is the shared, phase-dependent view of a round's
// answers. Scores and PlayerScores are populated only on final
// snapshots; consumers branch on Kind, never on field presence.
type StatusSnapshot struct {
	Kind            SnapshotKind        `json:"kind" bson:"kind"`
	Counts          map[string]int      `json:"counts" bson:"counts"`
	AnswersByPlayer map[string][]string `json:"answersByPlayer" bson:"answersByPlayer"`
	Scores          map[string]int      `json:"scores,omitempty" bson:"scores,omitempty"`
	PlayerScores    map[string]int      `json:"playerScores,omitempty" bson:"playerScores,omitempty"`
}

// Final reports whether the snapshot is the irreversible scored one.
func (s *StatusSnapshot) Final() bool {
	return s != nil && s.Kind == SnapshotFinal
}

// Round is the single shared game instance. It is a reusable slot:
// starting a new round resets players, answers and the status cache in
// place while keeping the same identity.
type Round struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	QuestionID   string          `json:"questionId" bson:"questionId"`
	QuestionText string          `json:"questionText" bson:"questionText"`
	Players      []string        `json:"players" bson:"players"`
	Answers      []Answer        `json:"answers" bson:"answers"`
	StartedAt    time.Time       `json:"startedAt" bson:"startedAt"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	Background   int             `json:"background" bson:"background"`
	TimesPlayed  int             `json:"timesPlayed" bson:"timesPlayed"`
	Dirty        bool            `json:"dirty" bson:"dirty"`
	Status       *StatusSnapshot `json:"status,omitempty" bson:"status,omitempty"`
	Flags        map[string]int  `json:"flags,omitempty" bson:"flags,omitempty"`
}

// Elapsed returns how long the round has been running. A round that was
// never started counts as infinitely old so it rotates immediately.
func (r *Round) Elapsed(now time.Time) time.Duration {
	if r.StartedAt.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(r.StartedAt)
}

// HasPlayer reports whether the player already joined this round.
func (r *Round) HasPlayer(name string) bool {
	for _, p := range r.Players {
		if p == name {
			return true
		}
	}
	return false
}

// HasAnswer reports whether the round already holds an answer for the
// (player id, text) pair.
func (r *Round) HasAnswer(playerID, text string) bool {
	for _, a := range r.Answers {
		if a.PlayerID == playerID && a.Text == text {
			return true
		}
	}
	return false
}

// PlayerStatus is the personalized round view returned to one player.
// Counts and UserScores are restricted to that player's own answers.
type PlayerStatus struct {
	Final      bool           `json:"final"`
	Counts     map[string]int `json:"counts"`
	UserScores map[string]int `json:"userScores,omitempty"`
	RoundScore int            `json:"roundScore,omitempty"`
	TotalScore int            `json:"totalScore,omitempty"`
}

// RoundSummary is the public shape of the current round, sent with
// every response so clients can resynchronize after a rotation.
type RoundSummary struct {
	Key        string    `json:"key"`
	Question   string    `json:"question"`
	Players    []string  `json:"players"`
	GameStart  time.Time `json:"gameStart"`
	ServerTime time.Time `json:"serverTime"`
	Background int       `json:"backgroundColor"`
}
