package service

import (
	"strings"
	"testing"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ai"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

func steadfast() []ai.Personality {
	// A roster entry that never retreats, so bot turns are predictable.
	p := ai.DefaultPersonalities()[0]
	p.Name = "steadfast"
	p.RetreatChance = 0
	p.RetreatHPThreshold = 0
	return []ai.Personality{p}
}

func TestCreateBotMatch_BotSlotIsPreReady(t *testing.T) {
	m := newMockRepo()
	room, err := CreateBotMatch(m, "alice", sheet("av1", "Blaze"), sheet("npc", "Golem"), "steadfast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.Status != game.RoomWaiting {
		t.Fatalf("expected waiting room, got %s", room.Status)
	}
	if !room.Player2.Bot || !room.Player2.Ready {
		t.Fatalf("bot slot must be flagged and pre-ready: %+v", room.Player2)
	}
	if !strings.HasPrefix(room.Player2.UserID, "bot:") {
		t.Fatalf("bot user id must be synthetic, got %s", room.Player2.UserID)
	}

	// The player's ready starts the match immediately.
	started, err := SubmitReady(m, room.RoomID, "alice", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Status != game.RoomActive {
		t.Fatalf("expected active after player ready, got %s", started.Status)
	}
}

func TestPlayBotTurn_ActsOnlyOnBotTurn(t *testing.T) {
	m := newMockRepo()
	room, _ := CreateBotMatch(m, "alice", sheet("av1", "Blaze"), sheet("npc", "Golem"), "steadfast")
	if _, err := SubmitReady(m, room.RoomID, "alice", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Slot 1 (the human) owns the first turn; the bot must do nothing.
	got, err := PlayBotTurn(m, engine.DefaultTuning(), ranking.DefaultTiers(), steadfast(), room.RoomID, time.Minute)
	if err != nil || got != nil {
		t.Fatalf("expected no-op on the human's turn, got room=%v err=%v", got, err)
	}

	if _, _, err := SubmitAction(m, engine.DefaultTuning(), ranking.DefaultTiers(), room.RoomID, "alice", ActionRequest{Type: game.ActionAttack}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = PlayBotTurn(m, engine.DefaultTuning(), ranking.DefaultTiers(), steadfast(), room.RoomID, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.CurrentPlayer != 1 || got.CurrentTurn != 3 {
		t.Fatalf("expected bot to act and hand the turn back, got %+v", got)
	}
	stored, _ := m.GetRoomByID(room.RoomID)
	if len(stored.BattleData.Turns) != 2 {
		t.Fatalf("expected two logged turns, got %d", len(stored.BattleData.Turns))
	}
}

func TestBotMatch_FinishMovesNoFame(t *testing.T) {
	m := newMockRepo()
	room, _ := CreateBotMatch(m, "alice", sheet("av1", "Blaze"), sheet("npc", "Golem"), "steadfast")
	if _, err := SubmitReady(m, room.RoomID, "alice", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active, _ := m.GetRoomByID(room.RoomID)
	active.BattleData.Snapshot2.HP = 1
	m.rooms[active.RoomID] = *active

	updated, _, err := SubmitAction(m, engine.DefaultTuning(), ranking.DefaultTiers(), room.RoomID, "alice", ActionRequest{Type: game.ActionAttack}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != game.RoomFinished {
		t.Fatalf("expected finish, got %s", updated.Status)
	}
	stored, _ := m.GetRoomByID(room.RoomID)
	if !stored.ResultApplied {
		t.Fatalf("bot matches still mark the result applied")
	}
	if len(m.rankings) != 0 {
		t.Fatalf("bot matches must not touch rankings, got %v", m.rankings)
	}
}
