package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

// CreateChallenge opens a pending challenge from challenger to challenged.
// The challenger supplies their avatar sheet up front so the room can be
// built without another read from the avatar system.
func CreateChallenge(repo ChallengeRepo, challengerID, challengedID string, sheet game.AvatarSheet, ttl time.Duration) (*game.Challenge, error) {
	if challengerID == "" || challengedID == "" || sheet.AvatarID == "" {
		return nil, ErrInvalidAction
	}
	if challengerID == challengedID {
		return nil, ErrSelfChallenge
	}
	c := &game.Challenge{
		ChallengeID:     uuid.NewString(),
		ChallengerID:    challengerID,
		ChallengedID:    challengedID,
		ChallengerSheet: sheet,
		Status:          game.ChallengePending,
		ExpiresAt:       time.Now().Add(ttl),
	}
	if err := repo.CreateChallenge(c); err != nil {
		return nil, err
	}
	logging.Info("challenge created", logging.Fields{"challenge_id": c.ChallengeID, "challenger": challengerID, "challenged": challengedID})
	return c, nil
}

// AcceptChallenge resolves a pending challenge exactly once and creates the
// battle room both clients will poll. A second accept, or an accept racing
// the expirer, observes the conditional update fail and gets a conflict.
func AcceptChallenge(repo ChallengeRepo, challengeID, userID string, sheet game.AvatarSheet) (*game.BattleRoom, error) {
	c, err := fetchChallenge(repo, challengeID)
	if err != nil {
		return nil, err
	}
	if c.ChallengedID != userID {
		return nil, ErrNotParticipant
	}
	if c.Status != game.ChallengePending {
		return nil, ErrChallengeResolved
	}
	if time.Now().After(c.ExpiresAt) {
		return nil, ErrChallengeResolved
	}

	room := newRoom(c.ChallengeID, c.ChallengerID, c.ChallengerSheet, c.ChallengedID, sheet)
	if err := repo.ResolveChallenge(challengeID, game.ChallengePending, game.ChallengeAccepted, room.RoomID); err != nil {
		if err == storage.ErrVersionConflict {
			return nil, ErrChallengeResolved
		}
		return nil, err
	}
	c.ChallengedSheet = sheet
	if err := repo.SaveChallengeSheet(c); err != nil {
		logging.Error("failed to persist challenged sheet", err, logging.Fields{"challenge_id": challengeID})
	}
	if err := repo.CreateRoom(room); err != nil {
		return nil, err
	}
	logging.Info("challenge accepted", logging.Fields{"challenge_id": challengeID, "room_id": room.RoomID})
	return room, nil
}

// DeclineChallenge rejects a pending challenge; only the challenged user may
// decline.
func DeclineChallenge(repo ChallengeRepo, challengeID, userID string) error {
	return resolveAs(repo, challengeID, userID, false, game.ChallengeRejected)
}

// CancelChallenge withdraws a pending challenge; only the challenger may
// cancel.
func CancelChallenge(repo ChallengeRepo, challengeID, userID string) error {
	return resolveAs(repo, challengeID, userID, true, game.ChallengeCancelled)
}

func resolveAs(repo ChallengeRepo, challengeID, userID string, byChallenger bool, to game.ChallengeStatus) error {
	c, err := fetchChallenge(repo, challengeID)
	if err != nil {
		return err
	}
	owner := c.ChallengedID
	if byChallenger {
		owner = c.ChallengerID
	}
	if owner != userID {
		return ErrNotParticipant
	}
	if err := repo.ResolveChallenge(challengeID, game.ChallengePending, to, ""); err != nil {
		if err == storage.ErrVersionConflict {
			return ErrChallengeResolved
		}
		return err
	}
	return nil
}

// fetchChallenge mirrors fetchRoom: only a true absence becomes the
// not-found sentinel, everything else stays retryable.
func fetchChallenge(repo ChallengeRepo, challengeID string) (*game.Challenge, error) {
	c, err := repo.GetChallengeByID(challengeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	if c == nil {
		return nil, ErrChallengeNotFound
	}
	return c, nil
}

// newRoom builds the waiting room for an accepted challenge. The challenger
// takes slot 1 and owns the first turn once both sides are ready.
func newRoom(challengeID, challengerID string, challengerSheet game.AvatarSheet, challengedID string, challengedSheet game.AvatarSheet) *game.BattleRoom {
	now := time.Now()
	return &game.BattleRoom{
		RoomID:        uuid.NewString(),
		ChallengeID:   challengeID,
		Status:        game.RoomWaiting,
		CurrentPlayer: 1,
		Player1: game.Participant{
			UserID:        challengerID,
			AvatarID:      challengerSheet.AvatarID,
			AvatarName:    challengerSheet.Name,
			Level:         challengerSheet.Level,
			Connected:     true,
			LastHeartbeat: now,
		},
		Player2: game.Participant{
			UserID:        challengedID,
			AvatarID:      challengedSheet.AvatarID,
			AvatarName:    challengedSheet.Name,
			Level:         challengedSheet.Level,
			Connected:     true,
			LastHeartbeat: now,
		},
		BattleData: game.BattleData{
			Turns:     []game.TurnRecord{},
			Snapshot1: challengerSheet.NewSnapshot(),
			Snapshot2: challengedSheet.NewSnapshot(),
		},
	}
}
