package ranking

import (
	"time"
)

// Outcome is the pair of updated entries returned by ApplyResult.
type Outcome struct {
	WinnerGain int
	LoserLoss  int
}

// ApplyResult is the single mutation path for ranking entries: it resolves
// both players' live season records, applies the symmetric fame deltas and
// streak/stat bookkeeping, and persists both. Fame never drops below 0.
func ApplyResult(repo Repo, tiers TierTable, winnerID, loserID string, now time.Time) (Outcome, error) {
	w, err := EnsureCurrentSeason(repo, tiers, winnerID, now)
	if err != nil {
		return Outcome{}, err
	}
	l, err := EnsureCurrentSeason(repo, tiers, loserID, now)
	if err != nil {
		return Outcome{}, err
	}

	gain := CalculateGain(w.Fame, l.Fame)
	loss := CalculateLoss(w.Fame, l.Fame)

	w.Fame = ApplyDelta(w.Fame, gain)
	w.Wins++
	w.Streak++
	if w.Streak > w.MaxStreak {
		w.MaxStreak = w.Streak
	}
	w.LastBattleAt = now

	l.Fame = ApplyDelta(l.Fame, -loss)
	l.Losses++
	l.Streak = 0
	l.LastBattleAt = now

	if err := repo.SaveRankingEntry(w); err != nil {
		return Outcome{}, err
	}
	if err := repo.SaveRankingEntry(l); err != nil {
		return Outcome{}, err
	}
	return Outcome{WinnerGain: gain, LoserLoss: loss}, nil
}
