package service

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// TimeoutRepo is the scan surface for rooms whose turn timer lapsed.
type TimeoutRepo interface {
	BattleRepo
	FindTurnTimedOutRooms(now time.Time, limit int) ([]game.BattleRoom, error)
}

// HandleTurnTimeout forces a defend for the player who let the clock run
// out, so a slow opponent can never freeze a battle. The forced turn is
// marked on the record and uses a fixed mid die instead of a real roll.
func HandleTurnTimeout(repo BattleRepo, tuning engine.Tuning, tiers ranking.TierTable, room *game.BattleRoom, turnTimeout time.Duration) error {
	if room.Status != game.RoomActive {
		return ErrRoomNotActive
	}
	now := time.Now()
	if room.TurnDeadline.After(now) {
		return nil
	}
	applyTurn(room, room.CurrentPlayer, engine.Action{Type: game.ActionDefend}, tuning, true, turnTimeout, now)
	if err := persistRoom(repo, room); err != nil {
		return err
	}
	logging.Info("turn forced on timeout", logging.Fields{"room_id": room.RoomID, "turn": room.CurrentTurn - 1})
	if room.Status == game.RoomFinished {
		FinalizeBattle(repo, tiers, room)
	}
	return nil
}

// SweepTurnTimeouts scans for expired turn deadlines and forces each one.
// Version conflicts are expected when the player's action landed first; the
// sweep just moves on.
func SweepTurnTimeouts(repo TimeoutRepo, tuning engine.Tuning, tiers ranking.TierTable, turnTimeout time.Duration, limit int) int {
	rooms, err := repo.FindTurnTimedOutRooms(time.Now(), limit)
	if err != nil {
		logging.Error("turn timeout scan failed", err, nil)
		return 0
	}
	forced := 0
	for i := range rooms {
		room := rooms[i]
		if err := HandleTurnTimeout(repo, tuning, tiers, &room, turnTimeout); err == nil {
			forced++
		}
	}
	return forced
}
