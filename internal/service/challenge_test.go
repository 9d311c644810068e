package service

import (
	"testing"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

func TestCreateChallenge_RejectsSelfChallenge(t *testing.T) {
	m := newMockRepo()
	if _, err := CreateChallenge(m, "alice", "alice", sheet("av1", "Blaze"), time.Minute); err != ErrSelfChallenge {
		t.Fatalf("expected ErrSelfChallenge, got %v", err)
	}
}

func TestAcceptChallenge_CreatesWaitingRoom(t *testing.T) {
	m := newMockRepo()
	ch, err := CreateChallenge(m, "alice", "bob", sheet("av1", "Blaze"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	room, err := AcceptChallenge(m, ch.ChallengeID, "bob", sheet("av2", "Frost"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.Status != game.RoomWaiting {
		t.Fatalf("expected waiting room, got %s", room.Status)
	}
	if room.Player1.UserID != "alice" || room.Player2.UserID != "bob" {
		t.Fatalf("challenger must take slot 1: %+v", room)
	}
	if room.CurrentPlayer != 1 {
		t.Fatalf("slot 1 owns the first turn, got %d", room.CurrentPlayer)
	}
	if room.BattleData.Snapshot1.HPMax != 100 || room.BattleData.Snapshot2.HPMax != 100 {
		t.Fatalf("snapshots must be initialized from the sheets")
	}

	stored, _ := m.GetChallengeByID(ch.ChallengeID)
	if stored.Status != game.ChallengeAccepted || stored.MatchID != room.RoomID {
		t.Fatalf("challenge must record the accepted room, got %+v", stored)
	}
}

func TestAcceptChallenge_SecondAcceptConflicts(t *testing.T) {
	m := newMockRepo()
	ch, _ := CreateChallenge(m, "alice", "bob", sheet("av1", "Blaze"), time.Minute)

	if _, err := AcceptChallenge(m, ch.ChallengeID, "bob", sheet("av2", "Frost")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := AcceptChallenge(m, ch.ChallengeID, "bob", sheet("av2", "Frost")); err != ErrChallengeResolved {
		t.Fatalf("expected ErrChallengeResolved on repeat accept, got %v", err)
	}
}

func TestAcceptChallenge_OnlyChallengedMayAccept(t *testing.T) {
	m := newMockRepo()
	ch, _ := CreateChallenge(m, "alice", "bob", sheet("av1", "Blaze"), time.Minute)
	if _, err := AcceptChallenge(m, ch.ChallengeID, "alice", sheet("av1", "Blaze")); err != ErrNotParticipant {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestAcceptChallenge_ExpiredConflicts(t *testing.T) {
	m := newMockRepo()
	ch, _ := CreateChallenge(m, "alice", "bob", sheet("av1", "Blaze"), -time.Minute)
	if _, err := AcceptChallenge(m, ch.ChallengeID, "bob", sheet("av2", "Frost")); err != ErrChallengeResolved {
		t.Fatalf("expected ErrChallengeResolved for lapsed challenge, got %v", err)
	}
}

func TestDeclineAndCancel_OwnershipEnforced(t *testing.T) {
	m := newMockRepo()
	ch, _ := CreateChallenge(m, "alice", "bob", sheet("av1", "Blaze"), time.Minute)

	if err := DeclineChallenge(m, ch.ChallengeID, "alice"); err != ErrNotParticipant {
		t.Fatalf("challenger cannot decline, got %v", err)
	}
	if err := CancelChallenge(m, ch.ChallengeID, "bob"); err != ErrNotParticipant {
		t.Fatalf("challenged cannot cancel, got %v", err)
	}
	if err := DeclineChallenge(m, ch.ChallengeID, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := m.GetChallengeByID(ch.ChallengeID)
	if stored.Status != game.ChallengeRejected {
		t.Fatalf("expected rejected, got %s", stored.Status)
	}
	// Resolution is final.
	if err := CancelChallenge(m, ch.ChallengeID, "alice"); err != ErrChallengeResolved {
		t.Fatalf("expected ErrChallengeResolved after decline, got %v", err)
	}
}
