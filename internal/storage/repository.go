package storage

import (
	"errors"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned by conditional updates when the stored
	// version no longer matches the one the caller read. The caller lost a
	// write race and must re-read; retrying the identical submission is safe.
	ErrVersionConflict = errors.New("version conflict")
)

// Repository is the persistence contract for the battle subsystem. Only
// single-record transactionality is assumed; cross-record consistency is
// achieved by idempotent operations, never distributed transactions.
type Repository interface {
	// Battle rooms
	CreateRoom(r *game.BattleRoom) error
	GetRoomByID(roomID string) (*game.BattleRoom, error)
	// UpdateRoomVersioned persists the room only when the stored version
	// equals expectedVersion, bumping it by one. This is the single-writer
	// enforcement point: client-side turn checks are a UX convenience only.
	UpdateRoomVersioned(r *game.BattleRoom, expectedVersion int) error
	FindTurnTimedOutRooms(now time.Time, limit int) ([]game.BattleRoom, error)
	FindStaleActiveRooms(heartbeatCutoff time.Time, limit int) ([]game.BattleRoom, error)

	// Challenges
	CreateChallenge(c *game.Challenge) error
	GetChallengeByID(challengeID string) (*game.Challenge, error)
	// ResolveChallenge moves a challenge from `from` to `to` exactly once;
	// a challenge already out of `from` yields ErrVersionConflict.
	ResolveChallenge(challengeID string, from, to game.ChallengeStatus, matchID string) error
	SaveChallengeSheet(c *game.Challenge) error
	ExpireChallenges(now time.Time) (int64, error)

	// Rankings
	GetRankingEntry(userID, season string) (*game.RankingEntry, error)
	GetLatestRanking(userID string) (*game.RankingEntry, error)
	SaveRankingEntry(e *game.RankingEntry) error
	ArchiveSeason(a *game.SeasonArchive, keep int) error
	ListSeasonArchives(userID string) ([]game.SeasonArchive, error)
	TopRankings(season string, limit int) ([]game.RankingEntry, error)
	ListStaleRankings(season string, limit int) ([]game.RankingEntry, error)

	// Matchmaking presence
	UpsertPresence(p *game.AvailablePlayer) error
	ListAvailablePlayers(excludeUserID string, minLevel, maxLevel int, now time.Time) ([]game.AvailablePlayer, error)
	DeleteExpiredPresence(now time.Time) (int64, error)
	DeletePresence(userID string) error
}
