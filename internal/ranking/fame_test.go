package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

func TestCalculateGain_EqualFame(t *testing.T) {
	assert.Equal(t, 22, CalculateGain(1000, 1000))
	assert.Equal(t, 20, CalculateLoss(1000, 1000))
}

func TestCalculateGain_UpsetBonusIsGapProportionalAndCapped(t *testing.T) {
	// 200 gap: bonus 200/20 = 10
	assert.Equal(t, 32, CalculateGain(800, 1000))
	// Huge gap: bonus capped at 15
	assert.Equal(t, 37, CalculateGain(100, 2000))
	// Symmetric on the losing side
	assert.Equal(t, 35, CalculateLoss(100, 2000))
}

func TestCalculateGain_SmallGapUpsetBeatsEqualFame(t *testing.T) {
	// Any positive gap must pay strictly more than an equal-fame win.
	assert.Greater(t, CalculateGain(990, 1000), CalculateGain(1000, 1000))
	assert.Equal(t, 23, CalculateGain(990, 1000))
	assert.Equal(t, 23, CalculateGain(999, 1000))
	assert.Equal(t, 21, CalculateLoss(990, 1000))
}

func TestCalculateGain_FavouriteEarnsLessWithFloor(t *testing.T) {
	assert.Equal(t, 12, CalculateGain(1200, 1000))
	// Far stronger winner bottoms out at the floor, never zero
	assert.Equal(t, 5, CalculateGain(3000, 100))
	assert.Equal(t, 5, CalculateLoss(3000, 100))
}

func TestApplyDelta_ClampsAtZero(t *testing.T) {
	assert.Equal(t, 0, ApplyDelta(10, -25))
	assert.Equal(t, 35, ApplyDelta(10, 25))
}

func TestTierOf_MapsTotalRange(t *testing.T) {
	tiers := DefaultTiers()
	require.True(t, tiers.Valid())
	assert.Equal(t, "bronze", tiers.TierOf(-5).Name)
	assert.Equal(t, "bronze", tiers.TierOf(799).Name)
	assert.Equal(t, "silver", tiers.TierOf(800).Name)
	assert.Equal(t, "legend", tiers.TierOf(9999).Name)
}

func TestTierTable_Valid(t *testing.T) {
	assert.False(t, TierTable{}.Valid())
	assert.False(t, TierTable{{Name: "a", MinFame: 100}}.Valid())
	assert.False(t, TierTable{{Name: "a", MinFame: 0}, {Name: "b", MinFame: 0}}.Valid())
}

// mockRankingRepo is an in-memory ranking store keyed by (user, season).
type mockRankingRepo struct {
	entries  map[string]*game.RankingEntry
	archives []game.SeasonArchive
}

func newMockRankingRepo() *mockRankingRepo {
	return &mockRankingRepo{entries: map[string]*game.RankingEntry{}}
}

func (m *mockRankingRepo) GetRankingEntry(userID, season string) (*game.RankingEntry, error) {
	if e, ok := m.entries[userID+"/"+season]; ok {
		return e, nil
	}
	return nil, nil
}

func (m *mockRankingRepo) GetLatestRanking(userID string) (*game.RankingEntry, error) {
	var latest *game.RankingEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if latest == nil || e.Season > latest.Season {
			latest = e
		}
	}
	return latest, nil
}

func (m *mockRankingRepo) SaveRankingEntry(e *game.RankingEntry) error {
	m.entries[e.UserID+"/"+e.Season] = e
	return nil
}

func (m *mockRankingRepo) ArchiveSeason(a *game.SeasonArchive, keep int) error {
	m.archives = append(m.archives, *a)
	return nil
}

func TestEnsureCurrentSeason_FirstAccessStartsAtBaseline(t *testing.T) {
	repo := newMockRankingRepo()
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	e, err := EnsureCurrentSeason(repo, DefaultTiers(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08", e.Season)
	assert.Equal(t, SeasonBaseline, e.Fame)
	assert.Empty(t, repo.archives)
}

func TestEnsureCurrentSeason_RolloverArchivesWithTier(t *testing.T) {
	repo := newMockRankingRepo()
	repo.entries["u1/2026-07"] = &game.RankingEntry{
		UserID: "u1", Season: "2026-07", Fame: 1300, Wins: 9, Losses: 2, MaxStreak: 5,
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	e, err := EnsureCurrentSeason(repo, DefaultTiers(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08", e.Season)
	assert.Equal(t, SeasonBaseline, e.Fame)
	assert.Zero(t, e.Wins)

	require.Len(t, repo.archives, 1)
	assert.Equal(t, "2026-07", repo.archives[0].Season)
	assert.Equal(t, 1300, repo.archives[0].Fame)
	assert.Equal(t, "gold", repo.archives[0].Tier)
}

func TestEnsureCurrentSeason_SameSeasonIsIdempotent(t *testing.T) {
	repo := newMockRankingRepo()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	first, err := EnsureCurrentSeason(repo, DefaultTiers(), "u1", now)
	require.NoError(t, err)
	first.Fame = 1234
	require.NoError(t, repo.SaveRankingEntry(first))

	again, err := EnsureCurrentSeason(repo, DefaultTiers(), "u1", now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1234, again.Fame)
	assert.Empty(t, repo.archives)
}

func TestApplyResult_UpdatesBothSidesAndStreaks(t *testing.T) {
	repo := newMockRankingRepo()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	season := SeasonID(now)
	repo.entries["w/"+season] = &game.RankingEntry{UserID: "w", Season: season, Fame: 800, Streak: 2, MaxStreak: 2}
	repo.entries["l/"+season] = &game.RankingEntry{UserID: "l", Season: season, Fame: 1000, Streak: 4}

	out, err := ApplyResult(repo, DefaultTiers(), "w", "l", now)
	require.NoError(t, err)
	assert.Equal(t, 32, out.WinnerGain) // upset: 22 + 200/20
	assert.Equal(t, 30, out.LoserLoss)

	w := repo.entries["w/"+season]
	l := repo.entries["l/"+season]
	assert.Equal(t, 832, w.Fame)
	assert.Equal(t, 1, w.Wins)
	assert.Equal(t, 3, w.Streak)
	assert.Equal(t, 3, w.MaxStreak)
	assert.Equal(t, 970, l.Fame)
	assert.Equal(t, 1, l.Losses)
	assert.Zero(t, l.Streak)
}

func TestApplyResult_LoserFameNeverNegative(t *testing.T) {
	repo := newMockRankingRepo()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	season := SeasonID(now)
	repo.entries["w/"+season] = &game.RankingEntry{UserID: "w", Season: season, Fame: 10}
	repo.entries["l/"+season] = &game.RankingEntry{UserID: "l", Season: season, Fame: 12}

	_, err := ApplyResult(repo, DefaultTiers(), "w", "l", now)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.entries["l/"+season].Fame)
}
