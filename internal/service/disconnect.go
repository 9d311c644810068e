package service

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// SubmitDisconnect is the voluntary forfeit path. A disconnect from a live
// room cancels it and awards the battle to the remaining player. Calling it
// on a room that already ended changes nothing and is not an error.
func SubmitDisconnect(repo BattleRepo, tiers ranking.TierTable, roomID, userID string) (*game.BattleRoom, error) {
	room, err := fetchRoom(repo, roomID)
	if err != nil {
		return nil, err
	}
	slot := room.Slot(userID)
	if slot == 0 {
		return nil, ErrNotParticipant
	}
	if room.Status.Terminal() {
		return room, nil
	}

	now := time.Now()
	room.ParticipantAt(slot).Connected = false
	room.Status = game.RoomCancelled
	room.Winner = game.OtherSlot(slot)
	room.FinishedAt = now

	if err := persistRoom(repo, room); err != nil {
		return nil, err
	}
	logging.Info("battle forfeited", logging.Fields{"room_id": room.RoomID, "leaver": userID})
	FinalizeBattle(repo, tiers, room)
	return room, nil
}

// StaleRoomRepo is the sweep surface for rooms whose clients went silent.
type StaleRoomRepo interface {
	BattleRepo
	FindStaleActiveRooms(heartbeatCutoff time.Time, limit int) ([]game.BattleRoom, error)
}

// SweepStaleRooms closes rooms where a participant stopped heartbeating. A
// one-sided silence is treated as a forfeit by the silent player; if both
// sides are gone the room is cancelled without a winner and no fame moves.
func SweepStaleRooms(repo StaleRoomRepo, tiers ranking.TierTable, heartbeatTTL time.Duration, limit int) int {
	now := time.Now()
	rooms, err := repo.FindStaleActiveRooms(now.Add(-heartbeatTTL), limit)
	if err != nil {
		logging.Error("stale room scan failed", err, nil)
		return 0
	}
	closed := 0
	cutoff := now.Add(-heartbeatTTL)
	for i := range rooms {
		room := rooms[i]
		if room.Status.Terminal() {
			continue
		}
		// Bots do not heartbeat and are never considered gone.
		stale1 := !room.Player1.Bot && !room.Player1.LastHeartbeat.After(cutoff)
		stale2 := !room.Player2.Bot && !room.Player2.LastHeartbeat.After(cutoff)
		if !stale1 && !stale2 {
			continue
		}
		room.Status = game.RoomCancelled
		room.FinishedAt = now
		switch {
		case stale1 && stale2:
			room.Winner = 0
		case stale1:
			room.Player1.Connected = false
			room.Winner = 2
		default:
			room.Player2.Connected = false
			room.Winner = 1
		}
		if err := persistRoom(repo, &room); err != nil {
			continue
		}
		logging.Info("stale battle closed", logging.Fields{"room_id": room.RoomID, "winner_slot": room.Winner})
		FinalizeBattle(repo, tiers, &room)
		closed++
	}
	return closed
}
