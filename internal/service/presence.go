package service

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/matchmaking"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// PresenceRequest is what a client announces to enter the matchmaking pool.
type PresenceRequest struct {
	AvatarID   string `json:"avatar_id"`
	AvatarName string `json:"avatar_name"`
	Level      int    `json:"level"`
	Power      int    `json:"power"`
	Fatigue    int    `json:"fatigue"`
}

// AnnouncePresence registers or refreshes the caller in the matchmaking pool.
// Presence expires on its own; clients re-announce while browsing.
func AnnouncePresence(repo PresenceRepo, ranks ranking.Repo, tiers ranking.TierTable, userID string, req PresenceRequest, ttl time.Duration) (*game.AvailablePlayer, error) {
	if userID == "" || req.AvatarID == "" {
		return nil, ErrInvalidAction
	}
	entry, err := ranking.EnsureCurrentSeason(ranks, tiers, userID, time.Now())
	if err != nil {
		return nil, err
	}
	p := &game.AvailablePlayer{
		UserID:     userID,
		AvatarID:   req.AvatarID,
		AvatarName: req.AvatarName,
		Level:      req.Level,
		Power:      req.Power,
		Fame:       entry.Fame,
		Fatigue:    req.Fatigue,
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := repo.UpsertPresence(p); err != nil {
		return nil, err
	}
	return p, nil
}

// WithdrawPresence removes the caller from the pool, typically when a match
// was found or the browser left the arena screen.
func WithdrawPresence(repo PresenceRepo, userID string) error {
	return repo.DeletePresence(userID)
}

// MatchRepo joins the surfaces opponent search needs: the presence pool plus
// the searcher's own ranking record.
type MatchRepo interface {
	matchmaking.Repo
	ranking.Repo
}

// FindOpponent runs the pairing search for the caller. The caller's fame is
// read from their live season record so the fame window tracks reality, not
// whatever the client claims.
func FindOpponent(repo MatchRepo, tiers ranking.TierTable, userID string, level int) (*game.AvailablePlayer, error) {
	entry, err := ranking.EnsureCurrentSeason(repo, tiers, userID, time.Now())
	if err != nil {
		return nil, err
	}
	return matchmaking.FindOpponent(repo, userID, level, entry.Fame, time.Now(), globalRand)
}

// PresenceSweeper is the cleanup surface for expired pool entries.
type PresenceSweeper interface {
	DeleteExpiredPresence(now time.Time) (int64, error)
}

// SweepPresence evicts expired pool entries.
func SweepPresence(repo PresenceSweeper) int64 {
	n, err := repo.DeleteExpiredPresence(time.Now())
	if err != nil {
		logging.Error("presence sweep failed", err, nil)
		return 0
	}
	return n
}
