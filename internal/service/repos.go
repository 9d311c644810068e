package service

import (
	"errors"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

var (
	ErrRoomNotFound      = errors.New("battle room not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrNotParticipant    = errors.New("player not in this battle")
	ErrRoomNotActive     = errors.New("battle is not active")
	ErrRoomTerminal      = errors.New("battle already ended")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidAction     = errors.New("invalid action")
	ErrChallengeResolved = errors.New("challenge already resolved")
	ErrSelfChallenge     = errors.New("cannot challenge yourself")
)

// RoomRepo is the minimal persistence surface for room reads and the
// version-checked write every mutation goes through.
type RoomRepo interface {
	GetRoomByID(roomID string) (*game.BattleRoom, error)
	UpdateRoomVersioned(r *game.BattleRoom, expectedVersion int) error
}

// BattleRepo adds the ranking surface needed by battle finalization.
type BattleRepo interface {
	RoomRepo
	ranking.Repo
}

// ChallengeRepo covers the challenge lifecycle plus room creation on accept.
type ChallengeRepo interface {
	CreateChallenge(c *game.Challenge) error
	GetChallengeByID(challengeID string) (*game.Challenge, error)
	ResolveChallenge(challengeID string, from, to game.ChallengeStatus, matchID string) error
	SaveChallengeSheet(c *game.Challenge) error
	CreateRoom(r *game.BattleRoom) error
}

// PresenceRepo covers the matchmaking presence records.
type PresenceRepo interface {
	UpsertPresence(p *game.AvailablePlayer) error
	DeletePresence(userID string) error
}

// fetchRoom loads a room, translating only a true absence into the not-found
// sentinel. Any other repository failure passes through untouched so the
// caller surfaces it as retryable instead of a dead 404.
func fetchRoom(repo RoomRepo, roomID string) (*game.BattleRoom, error) {
	room, err := repo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// persistRoom writes the room through the conditional update and keeps the
// caller's view consistent with what was stored.
func persistRoom(repo RoomRepo, room *game.BattleRoom) error {
	return repo.UpdateRoomVersioned(room, room.Version)
}

// touchHeartbeat refreshes a participant's liveness marker.
func touchHeartbeat(p *game.Participant, now time.Time) {
	p.Connected = true
	p.LastHeartbeat = now
}
