package model

import (
	"testing"
	"time"
)

func TestElapsedUnstartedRound(t *testing.T) {
	r := &Round{}
	if r.Elapsed(time.Now()) < 1000*time.Hour {
		t.Fatal("an unstarted round must count as infinitely old")
	}
}

func TestHasAnswerMatchesPlayerAndText(t *testing.T) {
	r := &Round{Answers: []Answer{{PlayerID: "a", PlayerName: "alice", Text: "bone"}}}

	if !r.HasAnswer("a", "bone") {
		t.Fatal("expected answer to be found")
	}
	if r.HasAnswer("b", "bone") {
		t.Fatal("same text from another player is not a duplicate")
	}
	if r.HasAnswer("a", "stick") {
		t.Fatal("different text from the same player is not a duplicate")
	}
}

func TestSnapshotFinalNilSafe(t *testing.T) {
	var s *StatusSnapshot
	if s.Final() {
		t.Fatal("nil snapshot must not be final")
	}
	if (&StatusSnapshot{Kind: SnapshotLive}).Final() {
		t.Fatal("live snapshot must not be final")
	}
	if !(&StatusSnapshot{Kind: SnapshotFinal}).Final() {
		t.Fatal("final snapshot should report final")
	}
}
