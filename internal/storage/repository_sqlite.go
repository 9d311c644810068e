package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a gorm handle in the Repository contract.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Battle rooms -------------------------------------------------------

func (r *sqliteRepository) CreateRoom(room *game.BattleRoom) error {
	room.Version = 1
	return r.db.Create(room).Error
}

func (r *sqliteRepository) GetRoomByID(roomID string) (*game.BattleRoom, error) {
	var room game.BattleRoom
	if err := r.db.Where("room_id = ?", roomID).First(&room).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// UpdateRoomVersioned is the atomic conditional update guarding every room
// mutation: the write applies only if nobody else has written since the
// caller read the record. RowsAffected==0 means the caller lost the race.
func (r *sqliteRepository) UpdateRoomVersioned(room *game.BattleRoom, expectedVersion int) error {
	room.Version = expectedVersion + 1
	res := r.db.Model(&game.BattleRoom{}).
		Where("room_id = ? AND version = ?", room.RoomID, expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(room)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		room.Version = expectedVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *sqliteRepository) FindTurnTimedOutRooms(now time.Time, limit int) ([]game.BattleRoom, error) {
	var rooms []game.BattleRoom
	err := r.db.
		Where("status = ? AND turn_deadline <= ?", game.RoomActive, now).
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

func (r *sqliteRepository) FindStaleActiveRooms(heartbeatCutoff time.Time, limit int) ([]game.BattleRoom, error) {
	var rooms []game.BattleRoom
	err := r.db.
		Where("status IN ? AND (p1_last_heartbeat <= ? OR p2_last_heartbeat <= ?)",
			[]game.RoomStatus{game.RoomWaiting, game.RoomActive}, heartbeatCutoff, heartbeatCutoff).
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

// --- Challenges ---------------------------------------------------------

func (r *sqliteRepository) CreateChallenge(c *game.Challenge) error {
	return r.db.Create(c).Error
}

func (r *sqliteRepository) GetChallengeByID(challengeID string) (*game.Challenge, error) {
	var c game.Challenge
	if err := r.db.Where("challenge_id = ?", challengeID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ResolveChallenge performs the exactly-once state move. The conditional
// WHERE keeps double accepts (or an accept racing an expiry) from resolving
// a challenge twice.
func (r *sqliteRepository) ResolveChallenge(challengeID string, from, to game.ChallengeStatus, matchID string) error {
	res := r.db.Model(&game.Challenge{}).
		Where("challenge_id = ? AND status = ?", challengeID, from).
		Updates(map[string]interface{}{"status": to, "match_id": matchID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *sqliteRepository) SaveChallengeSheet(c *game.Challenge) error {
	return r.db.Model(&game.Challenge{}).
		Where("challenge_id = ?", c.ChallengeID).
		Update("challenged_sheet", c.ChallengedSheet).Error
}

func (r *sqliteRepository) ExpireChallenges(now time.Time) (int64, error) {
	res := r.db.Model(&game.Challenge{}).
		Where("status = ? AND expires_at <= ?", game.ChallengePending, now).
		Update("status", game.ChallengeExpired)
	return res.RowsAffected, res.Error
}

// --- Rankings -----------------------------------------------------------

func (r *sqliteRepository) GetRankingEntry(userID, season string) (*game.RankingEntry, error) {
	var e game.RankingEntry
	if err := r.db.Where("user_id = ? AND season = ?", userID, season).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *sqliteRepository) GetLatestRanking(userID string) (*game.RankingEntry, error) {
	var e game.RankingEntry
	err := r.db.Where("user_id = ?", userID).Order("season DESC").First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *sqliteRepository) SaveRankingEntry(e *game.RankingEntry) error {
	return r.db.Save(e).Error
}

// ArchiveSeason stores a closed season and evicts the oldest rows beyond the
// cap, keeping the per-user history bounded.
func (r *sqliteRepository) ArchiveSeason(a *game.SeasonArchive, keep int) error {
	if err := r.db.Create(a).Error; err != nil {
		return err
	}
	var ids []uint
	if err := r.db.Model(&game.SeasonArchive{}).
		Where("user_id = ?", a.UserID).
		Order("season DESC").
		Offset(keep).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&game.SeasonArchive{}, ids).Error
}

func (r *sqliteRepository) ListSeasonArchives(userID string) ([]game.SeasonArchive, error) {
	var out []game.SeasonArchive
	err := r.db.Where("user_id = ?", userID).Order("season DESC").Find(&out).Error
	return out, err
}

func (r *sqliteRepository) TopRankings(season string, limit int) ([]game.RankingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.RankingEntry
	err := r.db.Where("season = ?", season).
		Order("fame DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListStaleRankings returns live records belonging to past seasons, used by
// the nightly job to roll idle users over.
func (r *sqliteRepository) ListStaleRankings(season string, limit int) ([]game.RankingEntry, error) {
	var out []game.RankingEntry
	err := r.db.Where("season < ?", season).
		Order("season ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// --- Matchmaking presence -------------------------------------------------

func (r *sqliteRepository) UpsertPresence(p *game.AvailablePlayer) error {
	var existing game.AvailablePlayer
	err := r.db.Where("user_id = ?", p.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(p).Error
	}
	if err != nil {
		return err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return r.db.Save(p).Error
}

func (r *sqliteRepository) ListAvailablePlayers(excludeUserID string, minLevel, maxLevel int, now time.Time) ([]game.AvailablePlayer, error) {
	var out []game.AvailablePlayer
	err := r.db.
		Where("user_id != ? AND level BETWEEN ? AND ? AND expires_at > ?", excludeUserID, minLevel, maxLevel, now).
		Find(&out).Error
	return out, err
}

func (r *sqliteRepository) DeleteExpiredPresence(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&game.AvailablePlayer{})
	return res.RowsAffected, res.Error
}

func (r *sqliteRepository) DeletePresence(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&game.AvailablePlayer{}).Error
}
