package service

import (
	"math/rand"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// ActionRequest is a player's submitted move: an action type plus, for
// abilities, the key of the ability to use.
type ActionRequest struct {
	Type       game.ActionType `json:"type"`
	AbilityKey string          `json:"ability,omitempty"`
}

// SubmitAction applies the caller's action to the room. It is accepted only
// when the room is active and the caller owns the current turn; anything
// else is rejected without mutating state. Acceptance resolves the turn
// through the combat engine, appends the outcome to the action log at the
// next index, hands the turn to the other slot and bumps the turn counter.
// The write goes through the version-checked update, so a race between a
// legitimate action and a stale duplicate cannot corrupt the room.
func SubmitAction(repo BattleRepo, tuning engine.Tuning, tiers ranking.TierTable, roomID, userID string, req ActionRequest, turnTimeout time.Duration) (*game.BattleRoom, *game.TurnRecord, error) {
	room, err := fetchRoom(repo, roomID)
	if err != nil {
		return nil, nil, err
	}
	if room.Status.Terminal() {
		return nil, nil, ErrRoomTerminal
	}
	if room.Status != game.RoomActive {
		return nil, nil, ErrRoomNotActive
	}
	slot := room.Slot(userID)
	if slot == 0 {
		return nil, nil, ErrNotParticipant
	}
	if slot != room.CurrentPlayer {
		return nil, nil, ErrNotYourTurn
	}

	action, err := buildAction(room.SnapshotAt(slot), req)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	touchHeartbeat(room.ParticipantAt(slot), now)
	record := applyTurn(room, slot, action, tuning, false, turnTimeout, now)

	if err := persistRoom(repo, room); err != nil {
		return nil, nil, err
	}
	if room.Status == game.RoomFinished {
		FinalizeBattle(repo, tiers, room)
	}
	return room, record, nil
}

// buildAction validates the request against the acting snapshot's actual
// ability list.
func buildAction(own *game.CombatSnapshot, req ActionRequest) (engine.Action, error) {
	switch req.Type {
	case game.ActionAttack, game.ActionMagic, game.ActionDefend, game.ActionDodge:
		return engine.Action{Type: req.Type}, nil
	case game.ActionAbility:
		for i := range own.Abilities {
			if own.Abilities[i].Key == req.AbilityKey {
				return engine.Action{Type: game.ActionAbility, Ability: &own.Abilities[i].Ability}, nil
			}
		}
		return engine.Action{}, ErrInvalidAction
	default:
		return engine.Action{}, ErrInvalidAction
	}
}

// applyTurn resolves one action in memory: engine call, log append, turn
// hand-off, finish detection. Callers persist afterwards. The die is rolled
// here and stored on the record, which makes every resolved turn replayable.
func applyTurn(room *game.BattleRoom, slot int, action engine.Action, tuning engine.Tuning, forced bool, turnTimeout time.Duration, now time.Time) *game.TurnRecord {
	atk := room.SnapshotAt(slot)
	def := room.SnapshotAt(game.OtherSlot(slot))

	roll := engine.RollD20(globalRand)
	if forced {
		roll = forcedRoll
		action.Forced = true
	}
	if action.Type == game.ActionDodge {
		action.ContestRoll = engine.RollD20(globalRand)
	}

	res := engine.ResolveTurn(tuning, *atk, *def, action, room.CurrentTurn, roll)
	*atk = res.Attacker
	*def = res.Defender

	record := game.TurnRecord{
		Index:       len(room.BattleData.Turns),
		Player:      slot,
		Action:      string(res.Action.Type),
		Roll:        roll,
		ContestRoll: action.ContestRoll,
		Hit:         res.Hit,
		Critical:    res.Critical,
		Damage:      res.Damage,
		Forced:      forced,
		Logs:        res.Logs,
		At:          now,
	}
	if res.Action.Ability != nil {
		record.Ability = res.Action.Ability.Key
	}
	room.BattleData.Turns = append(room.BattleData.Turns, record)

	room.CurrentPlayer = game.OtherSlot(slot)
	room.CurrentTurn++
	room.TurnDeadline = now.Add(turnTimeout)

	if def.HP <= 0 {
		room.Status = game.RoomFinished
		room.Winner = slot
		room.FinishedAt = now
	} else if atk.HP <= 0 {
		room.Status = game.RoomFinished
		room.Winner = game.OtherSlot(slot)
		room.FinishedAt = now
	}
	return &room.BattleData.Turns[len(room.BattleData.Turns)-1]
}

// forcedRoll is the synthetic mid-range die recorded for timer-forced defend
// actions, keeping the log replayable without pretending luck was involved.
const forcedRoll = 10

var globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
