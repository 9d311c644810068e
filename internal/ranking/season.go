package ranking

import (
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

// ArchiveKeep caps the per-user season history; oldest entries are evicted
// beyond this count.
const ArchiveKeep = 12

// Repo is the narrow persistence surface the ranking calculator needs.
type Repo interface {
	GetRankingEntry(userID, season string) (*game.RankingEntry, error)
	GetLatestRanking(userID string) (*game.RankingEntry, error)
	SaveRankingEntry(e *game.RankingEntry) error
	ArchiveSeason(a *game.SeasonArchive, keep int) error
}

// SeasonID derives the season identifier from a calendar instant
// (year+month granularity).
func SeasonID(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// EnsureCurrentSeason returns the user's live ranking record for the season
// containing now, performing the rollover on first access in a new season:
// the previous record is archived (history capped) and a fresh record starts
// at the baseline with zeroed stats. The persistence layer is authoritative;
// callers must never trust a cached season id.
func EnsureCurrentSeason(repo Repo, tiers TierTable, userID string, now time.Time) (*game.RankingEntry, error) {
	season := SeasonID(now)
	latest, err := repo.GetLatestRanking(userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Season == season {
		return latest, nil
	}

	if latest != nil {
		archive := &game.SeasonArchive{
			UserID:    latest.UserID,
			Season:    latest.Season,
			Fame:      latest.Fame,
			Wins:      latest.Wins,
			Losses:    latest.Losses,
			MaxStreak: latest.MaxStreak,
			Tier:      tiers.TierOf(latest.Fame).Name,
		}
		if err := repo.ArchiveSeason(archive, ArchiveKeep); err != nil {
			return nil, err
		}
	}

	fresh := &game.RankingEntry{UserID: userID, Season: season, Fame: SeasonBaseline}
	if err := repo.SaveRankingEntry(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
