package matchmaking

import (
	"math/rand"
	"sort"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

// Matchmaking windows. Level proximity is a hard filter; the fame window is
// soft and dropped when it would leave fewer than minInFameWindow candidates.
const (
	LevelWindow     = 2
	FameWindow      = 300
	minInFameWindow = 3
	topCandidates   = 10
	// FatigueThreshold marks an avatar too tired to fight.
	FatigueThreshold = 80
)

// Repo is the presence surface matchmaking reads from.
type Repo interface {
	ListAvailablePlayers(excludeUserID string, minLevel, maxLevel int, now time.Time) ([]game.AvailablePlayer, error)
}

// FindOpponent selects a human opponent for the requester: candidates within
// ±2 levels and under the fatigue threshold are scored by fame and level
// proximity (lower is better), then one of the ten best is chosen uniformly
// at random so pairing stays close but not deterministic. Returns nil when
// no candidate qualifies.
func FindOpponent(repo Repo, userID string, level, fame int, now time.Time, rng *rand.Rand) (*game.AvailablePlayer, error) {
	pool, err := repo.ListAvailablePlayers(userID, level-LevelWindow, level+LevelWindow, now)
	if err != nil {
		return nil, err
	}

	rested := pool[:0]
	for _, c := range pool {
		if c.Fatigue <= FatigueThreshold {
			rested = append(rested, c)
		}
	}
	if len(rested) == 0 {
		return nil, nil
	}

	inWindow := make([]game.AvailablePlayer, 0, len(rested))
	for _, c := range rested {
		if abs(c.Fame-fame) <= FameWindow {
			inWindow = append(inWindow, c)
		}
	}
	candidates := rested
	if len(inWindow) >= minInFameWindow {
		candidates = inWindow
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i], level, fame) < score(candidates[j], level, fame)
	})
	if len(candidates) > topCandidates {
		candidates = candidates[:topCandidates]
	}

	pick := candidates[rng.Intn(len(candidates))]
	return &pick, nil
}

// score ranks a candidate by match closeness; lower is a better match.
func score(c game.AvailablePlayer, level, fame int) int {
	return abs(c.Fame-fame)/10 + abs(c.Level-level)*50
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
