package service

import (
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// finalizeGroup collapses concurrent finalize attempts for the same room so
// fame is applied once even when both pollers observe the finish together.
var finalizeGroup singleflight.Group

// FinalizeBattle applies the ranking consequences of a decided room. It is
// idempotent: the ResultApplied flag on the room is the durable marker, and
// the singleflight group dedupes in-flight callers. Bot opponents and rooms
// that never started carry no fame.
func FinalizeBattle(repo BattleRepo, tiers ranking.TierTable, room *game.BattleRoom) {
	if room == nil || !room.Status.Terminal() || room.ResultApplied {
		return
	}
	finalizeGroup.Do(room.RoomID, func() (interface{}, error) {
		fresh, err := repo.GetRoomByID(room.RoomID)
		if err != nil || fresh == nil {
			return nil, err
		}
		if fresh.ResultApplied {
			return nil, nil
		}
		if fresh.Winner != 0 && !fresh.Player1.Bot && !fresh.Player2.Bot && !fresh.StartedAt.IsZero() {
			winner := fresh.ParticipantAt(fresh.Winner)
			loser := fresh.ParticipantAt(game.OtherSlot(fresh.Winner))
			out, err := ranking.ApplyResult(repo, tiers, winner.UserID, loser.UserID, time.Now())
			if err != nil {
				logging.Error("fame apply failed", err, logging.Fields{"room_id": fresh.RoomID})
				return nil, err
			}
			logging.Info("fame applied", logging.Fields{
				"room_id": fresh.RoomID,
				"winner":  winner.UserID,
				"gain":    out.WinnerGain,
				"loss":    out.LoserLoss,
			})
		}
		fresh.ResultApplied = true
		if err := persistRoom(repo, fresh); err != nil {
			logging.Error("failed to mark result applied", err, logging.Fields{"room_id": fresh.RoomID})
			return nil, err
		}
		room.ResultApplied = true
		room.Version = fresh.Version
		return nil, nil
	})
}
