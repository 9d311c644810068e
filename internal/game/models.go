package game

import (
	"time"

	"gorm.io/gorm"
)

// RoomStatus is the lifecycle state of a battle room. Transitions are
// monotonic: waiting -> active -> finished|cancelled, and the two terminal
// states are absorbing.
type RoomStatus string

const (
	RoomWaiting   RoomStatus = "waiting"
	RoomActive    RoomStatus = "active"
	RoomCancelled RoomStatus = "cancelled"
	RoomFinished  RoomStatus = "finished"
)

// Terminal reports whether no further transition may leave the status.
func (s RoomStatus) Terminal() bool {
	return s == RoomFinished || s == RoomCancelled
}

// Participant is one side of a battle room. Rooms always have exactly two
// slots; slot numbers are 1 and 2.
type Participant struct {
	UserID        string    `json:"user_id"`
	AvatarID      string    `json:"avatar_id"`
	AvatarName    string    `json:"avatar_name"`
	Level         int       `json:"level"`
	Bot           bool      `json:"bot"`
	Personality   string    `json:"personality,omitempty"`
	Ready         bool      `json:"ready"`
	Connected     bool      `json:"connected"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// BattleRoom is the shared record both clients poll. It is the only channel
// between the two players: the acting client submits a turn, the observer
// replays the persisted log. Version is bumped on every write and checked by
// the repository's conditional update so a stale submission can never
// overwrite a newer turn.
type BattleRoom struct {
	gorm.Model
	RoomID        string      `json:"room_id" gorm:"uniqueIndex;size:36"`
	ChallengeID   string      `json:"challenge_id" gorm:"size:36"`
	Status        RoomStatus  `json:"status" gorm:"index"`
	CurrentTurn   int         `json:"current_turn"`
	CurrentPlayer int         `json:"current_player"`
	Winner        int         `json:"winner"`
	Version       int         `json:"-"`
	ResultApplied bool        `json:"-"`
	TurnDeadline  time.Time   `json:"turn_deadline"`
	StartedAt     time.Time   `json:"started_at"`
	FinishedAt    time.Time   `json:"finished_at"`
	Player1       Participant `json:"player1" gorm:"embedded;embeddedPrefix:p1_"`
	Player2       Participant `json:"player2" gorm:"embedded;embeddedPrefix:p2_"`
	BattleData    BattleData  `json:"battle_data" gorm:"serializer:json"`
}

func (BattleRoom) TableName() string { return "battle_rooms" }

// Slot returns the slot number (1 or 2) for the given user, or 0 when the
// user is not a participant.
func (r *BattleRoom) Slot(userID string) int {
	switch userID {
	case r.Player1.UserID:
		return 1
	case r.Player2.UserID:
		return 2
	}
	return 0
}

// ParticipantAt returns the participant in the given slot.
func (r *BattleRoom) ParticipantAt(slot int) *Participant {
	if slot == 2 {
		return &r.Player2
	}
	return &r.Player1
}

// SnapshotAt returns the combat snapshot for the given slot.
func (r *BattleRoom) SnapshotAt(slot int) *CombatSnapshot {
	if slot == 2 {
		return &r.BattleData.Snapshot2
	}
	return &r.BattleData.Snapshot1
}

// OtherSlot maps 1->2 and 2->1.
func OtherSlot(slot int) int {
	if slot == 1 {
		return 2
	}
	return 1
}

// BattleData holds the ordered action log plus the latest combat snapshot of
// each side. It is persisted as a single JSON column: the log index is the
// de-duplication key for at-least-once pollers.
type BattleData struct {
	Turns     []TurnRecord   `json:"turns"`
	Snapshot1 CombatSnapshot `json:"snapshot1"`
	Snapshot2 CombatSnapshot `json:"snapshot2"`
}

// TurnRecord is one resolved action appended to the battle log. Every die
// involved is stored alongside the outcome so any turn can be replayed and
// audited; ContestRoll is the opposed die of a dodge check.
type TurnRecord struct {
	Index       int       `json:"index"`
	Player      int       `json:"player"`
	Action      string    `json:"action"`
	Ability     string    `json:"ability,omitempty"`
	Roll        int       `json:"roll"`
	ContestRoll int       `json:"contest_roll,omitempty"`
	Hit         bool      `json:"hit"`
	Critical    bool      `json:"critical"`
	Damage      int       `json:"damage"`
	Forced      bool      `json:"forced,omitempty"`
	Logs        []string  `json:"logs"`
	At          time.Time `json:"at"`
}

// ChallengeStatus is the lifecycle state of a challenge. A challenge is
// resolved exactly once and then immutable.
type ChallengeStatus string

const (
	ChallengePending   ChallengeStatus = "pending"
	ChallengeAccepted  ChallengeStatus = "accepted"
	ChallengeRejected  ChallengeStatus = "rejected"
	ChallengeExpired   ChallengeStatus = "expired"
	ChallengeCancelled ChallengeStatus = "cancelled"
)

type Challenge struct {
	gorm.Model
	ChallengeID     string          `json:"challenge_id" gorm:"uniqueIndex;size:36"`
	ChallengerID    string          `json:"challenger_id" gorm:"index"`
	ChallengedID    string          `json:"challenged_id" gorm:"index"`
	ChallengerSheet AvatarSheet     `json:"challenger_sheet" gorm:"serializer:json"`
	ChallengedSheet AvatarSheet     `json:"challenged_sheet" gorm:"serializer:json"`
	Status          ChallengeStatus `json:"status" gorm:"index"`
	MatchID         string          `json:"match_id" gorm:"size:36"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

func (Challenge) TableName() string { return "battle_challenges" }

// RankingEntry is the live per-(user, season) fame record. It is mutated only
// by the ranking calculator's apply step and reset at season rollover.
type RankingEntry struct {
	gorm.Model
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_ranking_user_season"`
	Season       string    `json:"season" gorm:"uniqueIndex:idx_ranking_user_season;size:7"`
	Fame         int       `json:"fame"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	Streak       int       `json:"streak"`
	MaxStreak    int       `json:"max_streak"`
	LastBattleAt time.Time `json:"last_battle_at"`
}

func (RankingEntry) TableName() string { return "ranking_entries" }

// SeasonArchive stores a closed season's final standing for a user. The
// per-user history is capped; oldest rows are evicted beyond the cap.
type SeasonArchive struct {
	gorm.Model
	UserID    string `json:"user_id" gorm:"index"`
	Season    string `json:"season" gorm:"size:7"`
	Fame      int    `json:"fame"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	MaxStreak int    `json:"max_streak"`
	Tier      string `json:"tier"`
}

func (SeasonArchive) TableName() string { return "season_archives" }

// AvailablePlayer is an ephemeral presence record used by matchmaking. It is
// re-asserted by client heartbeats and swept once ExpiresAt passes.
type AvailablePlayer struct {
	gorm.Model
	UserID     string    `json:"user_id" gorm:"uniqueIndex"`
	AvatarID   string    `json:"avatar_id"`
	AvatarName string    `json:"avatar_name"`
	Level      int       `json:"level"`
	Power      int       `json:"power"`
	Fame       int       `json:"fame"`
	Fatigue    int       `json:"fatigue"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
}

func (AvailablePlayer) TableName() string { return "available_players" }
