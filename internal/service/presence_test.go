package service

import (
	"testing"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

// poolRepo extends the battle mock with the matchmaking presence surface.
type poolRepo struct {
	*mockRepo
	pool map[string]game.AvailablePlayer
}

func newPoolRepo() *poolRepo {
	return &poolRepo{mockRepo: newMockRepo(), pool: map[string]game.AvailablePlayer{}}
}

func (p *poolRepo) UpsertPresence(a *game.AvailablePlayer) error {
	p.pool[a.UserID] = *a
	return nil
}

func (p *poolRepo) DeletePresence(userID string) error {
	delete(p.pool, userID)
	return nil
}

func (p *poolRepo) ListAvailablePlayers(excludeUserID string, minLevel, maxLevel int, now time.Time) ([]game.AvailablePlayer, error) {
	var out []game.AvailablePlayer
	for _, a := range p.pool {
		if a.UserID == excludeUserID || a.Level < minLevel || a.Level > maxLevel || !a.ExpiresAt.After(now) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *poolRepo) DeleteExpiredPresence(now time.Time) (int64, error) {
	var n int64
	for id, a := range p.pool {
		if !a.ExpiresAt.After(now) {
			delete(p.pool, id)
			n++
		}
	}
	return n, nil
}

func TestAnnouncePresence_FameComesFromRanking(t *testing.T) {
	repo := newPoolRepo()
	season := ranking.SeasonID(time.Now())
	repo.rankings["alice/"+season] = &game.RankingEntry{UserID: "alice", Season: season, Fame: 1500}

	p, err := AnnouncePresence(repo, repo, ranking.DefaultTiers(), "alice", PresenceRequest{AvatarID: "av1", AvatarName: "Blaze", Level: 10, Fatigue: 20}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Fame != 1500 {
		t.Fatalf("presence must carry the live season fame, got %d", p.Fame)
	}
	if !p.ExpiresAt.After(time.Now()) {
		t.Fatalf("presence must expire in the future")
	}
}

func TestFindOpponent_UsesSearchersLiveFame(t *testing.T) {
	repo := newPoolRepo()
	season := ranking.SeasonID(time.Now())
	repo.rankings["alice/"+season] = &game.RankingEntry{UserID: "alice", Season: season, Fame: 1000}
	repo.pool["bob"] = game.AvailablePlayer{UserID: "bob", Level: 10, Fame: 1050, ExpiresAt: time.Now().Add(time.Minute)}

	got, err := FindOpponent(repo, ranking.DefaultTiers(), "alice", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.UserID != "bob" {
		t.Fatalf("expected bob, got %+v", got)
	}
}

func TestFindOpponent_FirstSeasonSearcherStartsAtBaseline(t *testing.T) {
	repo := newPoolRepo()
	repo.pool["bob"] = game.AvailablePlayer{UserID: "bob", Level: 10, Fame: 1050, ExpiresAt: time.Now().Add(time.Minute)}

	got, err := FindOpponent(repo, ranking.DefaultTiers(), "newcomer", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a match for a baseline-fame newcomer")
	}
	season := ranking.SeasonID(time.Now())
	if e := repo.rankings["newcomer/"+season]; e == nil || e.Fame != ranking.SeasonBaseline {
		t.Fatalf("search must create the searcher's season record at baseline")
	}
}

func TestSweepPresence_EvictsExpiredOnly(t *testing.T) {
	repo := newPoolRepo()
	repo.pool["old"] = game.AvailablePlayer{UserID: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	repo.pool["live"] = game.AvailablePlayer{UserID: "live", ExpiresAt: time.Now().Add(time.Minute)}

	if n := SweepPresence(repo); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := repo.pool["live"]; !ok {
		t.Fatalf("live presence must survive the sweep")
	}
}

// seasonRepo extends the battle mock with the stale-ranking scan.
type seasonRepo struct {
	*mockRepo
}

func (s *seasonRepo) ListStaleRankings(season string, limit int) ([]game.RankingEntry, error) {
	var out []game.RankingEntry
	for _, e := range s.rankings {
		if e.Season < season {
			out = append(out, *e)
		}
	}
	return out, nil
}

func TestSweepStaleSeasons_RollsIdleUsersOver(t *testing.T) {
	repo := &seasonRepo{mockRepo: newMockRepo()}
	repo.rankings["idle/2026-01"] = &game.RankingEntry{UserID: "idle", Season: "2026-01", Fame: 1600, Wins: 4}

	if n := SweepStaleSeasons(repo, ranking.DefaultTiers(), 50); n != 1 {
		t.Fatalf("expected 1 rollover, got %d", n)
	}
	season := ranking.SeasonID(time.Now())
	fresh := repo.rankings["idle/"+season]
	if fresh == nil || fresh.Fame != ranking.SeasonBaseline {
		t.Fatalf("expected fresh baseline record, got %+v", fresh)
	}
	if len(repo.archives) != 1 || repo.archives[0].Tier != "diamond" {
		t.Fatalf("expected archived diamond season, got %+v", repo.archives)
	}
}
