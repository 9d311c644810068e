package service

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
)

// SubmitReady marks the caller's slot ready. The call is idempotent: a
// repeated ready from the same player changes nothing. The waiting->active
// transition fires exactly once, when the second ready flag lands.
func SubmitReady(repo RoomRepo, roomID, userID string, turnTimeout time.Duration) (*game.BattleRoom, error) {
	room, err := fetchRoom(repo, roomID)
	if err != nil {
		return nil, err
	}
	slot := room.Slot(userID)
	if slot == 0 {
		return nil, ErrNotParticipant
	}
	if room.Status.Terminal() {
		return nil, ErrRoomTerminal
	}
	if room.Status != game.RoomWaiting {
		return room, nil // already active; nothing to do
	}

	p := room.ParticipantAt(slot)
	now := time.Now()
	if p.Ready {
		touchHeartbeat(p, now)
		if err := persistRoom(repo, room); err != nil {
			return nil, err
		}
		return room, nil
	}
	p.Ready = true
	touchHeartbeat(p, now)

	if room.Player1.Ready && room.Player2.Ready {
		room.Status = game.RoomActive
		room.StartedAt = now
		room.CurrentTurn = 1
		room.CurrentPlayer = 1
		room.TurnDeadline = now.Add(turnTimeout)
		logging.Info("battle started", logging.Fields{"room_id": room.RoomID})
	}

	if err := persistRoom(repo, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Heartbeat refreshes the caller's liveness marker so the staleness sweeper
// does not treat a quiet-but-connected client as gone.
func Heartbeat(repo RoomRepo, roomID, userID string) (*game.BattleRoom, error) {
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
	touchHeartbeat(room.ParticipantAt(slot), time.Now())
	if err := persistRoom(repo, room); err != nil {
		return nil, err
	}
	return room, nil
}
