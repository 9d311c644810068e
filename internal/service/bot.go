package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ai"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

const botUserPrefix = "bot:"

// CreateBotMatch opens a room against a computer opponent. The bot slot is
// pre-ready, so the match starts as soon as the player submits ready. Bot
// matches never move fame.
func CreateBotMatch(repo ChallengeRepo, playerID string, playerSheet, botSheet game.AvatarSheet, personality string) (*game.BattleRoom, error) {
	if playerID == "" || playerSheet.AvatarID == "" || botSheet.AvatarID == "" {
		return nil, ErrInvalidAction
	}
	room := newRoom("", playerID, playerSheet, botUserPrefix+uuid.NewString(), botSheet)
	room.Player2.Bot = true
	room.Player2.Ready = true
	room.Player2.Personality = personality
	if err := repo.CreateRoom(room); err != nil {
		return nil, err
	}
	logging.Info("bot match created", logging.Fields{"room_id": room.RoomID, "player": playerID, "personality": personality})
	return room, nil
}

// PlayBotTurn resolves the computer's move for a room where the bot owns the
// current turn. The retreat check runs before the action: a fleeing bot
// forfeits the battle. Returns the updated room, or nil when the bot had
// nothing to do (not its turn, room not active).
func PlayBotTurn(repo BattleRepo, tuning engine.Tuning, tiers ranking.TierTable, roster []ai.Personality, roomID string, turnTimeout time.Duration) (*game.BattleRoom, error) {
	room, err := fetchRoom(repo, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != game.RoomActive {
		return nil, nil
	}
	slot := room.CurrentPlayer
	bot := room.ParticipantAt(slot)
	if !bot.Bot {
		return nil, nil
	}

	p := personalityByName(roster, bot.Personality)
	own := room.SnapshotAt(slot)
	opp := room.SnapshotAt(game.OtherSlot(slot))
	now := time.Now()

	if ai.ShouldRetreat(own, opp, p, globalRand) {
		room.Status = game.RoomCancelled
		room.Winner = game.OtherSlot(slot)
		room.FinishedAt = now
		if err := persistRoom(repo, room); err != nil {
			return nil, err
		}
		logging.Info("bot retreated", logging.Fields{"room_id": room.RoomID, "personality": p.Name})
		FinalizeBattle(repo, tiers, room)
		return room, nil
	}

	action := ai.Decide(tuning, own, opp, p, room.CurrentTurn, globalRand)
	applyTurn(room, slot, action, tuning, false, turnTimeout, now)
	if err := persistRoom(repo, room); err != nil {
		return nil, err
	}
	if room.Status == game.RoomFinished {
		FinalizeBattle(repo, tiers, room)
	}
	return room, nil
}

// ScheduleBotTurn runs the bot's move in the background after its pacing
// delay. The turn timeout sweeper is the backstop if the process restarts
// in between.
func ScheduleBotTurn(repo BattleRepo, tuning engine.Tuning, tiers ranking.TierTable, roster []ai.Personality, room *game.BattleRoom, turnTimeout time.Duration) {
	if room == nil || room.Status != game.RoomActive || !room.ParticipantAt(room.CurrentPlayer).Bot {
		return
	}
	p := personalityByName(roster, room.ParticipantAt(room.CurrentPlayer).Personality)
	roomID := room.RoomID
	go func() {
		time.Sleep(ai.ThinkingDelay(p, globalRand))
		if _, err := PlayBotTurn(repo, tuning, tiers, roster, roomID, turnTimeout); err != nil {
			logging.Error("bot turn failed", err, logging.Fields{"room_id": roomID})
		}
	}()
}

// personalityByName resolves a roster entry, falling back to the first entry
// and then to the shipped defaults so a stale name never breaks a match.
func personalityByName(roster []ai.Personality, name string) ai.Personality {
	for _, p := range roster {
		if p.Name == name {
			return p
		}
	}
	if len(roster) > 0 {
		return roster[0]
	}
	return ai.DefaultPersonalities()[0]
}
