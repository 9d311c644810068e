package service

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// SeasonRepo adds the stale-record scan to the ranking surface.
type SeasonRepo interface {
	ranking.Repo
	ListStaleRankings(season string, limit int) ([]game.RankingEntry, error)
}

// SweepStaleSeasons rolls idle users into the current season. Active users
// roll over lazily on their next read; this job catches the ones who never
// came back, so leaderboards and archives stay complete.
func SweepStaleSeasons(repo SeasonRepo, tiers ranking.TierTable, limit int) int {
	now := time.Now()
	current := ranking.SeasonID(now)
	stale, err := repo.ListStaleRankings(current, limit)
	if err != nil {
		logging.Error("season sweep scan failed", err, nil)
		return 0
	}
	rolled := 0
	for _, e := range stale {
		if _, err := ranking.EnsureCurrentSeason(repo, tiers, e.UserID, now); err != nil {
			logging.Error("season rollover failed", err, logging.Fields{"user_id": e.UserID, "season": e.Season})
			continue
		}
		rolled++
	}
	if rolled > 0 {
		logging.Info("seasons rolled over", logging.Fields{"count": rolled, "season": current})
	}
	return rolled
}

// ExpireRepo is the surface for the challenge expiry job.
type ExpireRepo interface {
	ExpireChallenges(now time.Time) (int64, error)
}

// SweepExpiredChallenges marks lapsed pending challenges expired.
func SweepExpiredChallenges(repo ExpireRepo) int64 {
	n, err := repo.ExpireChallenges(time.Now())
	if err != nil {
		logging.Error("challenge expiry failed", err, nil)
		return 0
	}
	return n
}
