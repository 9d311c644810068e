package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ai"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/service"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

// BattleHandler groups all arena HTTP handlers.
type BattleHandler struct {
	repo          storage.Repository
	tuning        engine.Tuning
	tiers         ranking.TierTable
	personalities []ai.Personality
	turnTimeout   time.Duration
	challengeTTL  time.Duration
	presenceTTL   time.Duration
}

// NewBattleHandler creates a BattleHandler bound to the repository and the
// loaded runtime configuration.
func NewBattleHandler(repo storage.Repository, tuning engine.Tuning, tiers ranking.TierTable, personalities []ai.Personality, turnTimeout, challengeTTL, presenceTTL time.Duration) *BattleHandler {
	return &BattleHandler{
		repo:          repo,
		tuning:        tuning,
		tiers:         tiers,
		personalities: personalities,
		turnTimeout:   turnTimeout,
		challengeTTL:  challengeTTL,
		presenceTTL:   presenceTTL,
	}
}

// battleView is the polled room state, shaped for the requesting player. The
// action log is tailed by the client's last-seen index so repeat polls only
// carry what is new.
type battleView struct {
	RoomID        string               `json:"room_id"`
	Status        game.RoomStatus      `json:"status"`
	CurrentTurn   int                  `json:"current_turn"`
	YourTurn      bool                 `json:"your_turn"`
	YourSlot      int                  `json:"your_slot"`
	WinnerSlot    int                  `json:"winner_slot,omitempty"`
	YouWon        *bool                `json:"you_won,omitempty"`
	TurnDeadline  time.Time            `json:"turn_deadline"`
	You           *game.Participant    `json:"you"`
	Opponent      *game.Participant    `json:"opponent"`
	YourState     *game.CombatSnapshot `json:"your_state"`
	OpponentState *game.CombatSnapshot `json:"opponent_state"`
	Turns         []game.TurnRecord    `json:"turns"`
	NextAfter     int                  `json:"next_after"`
}

func viewFor(room *game.BattleRoom, slot, after int) battleView {
	turns := room.BattleData.Turns
	if after >= 0 && after < len(turns) {
		turns = turns[after:]
	} else if after >= len(turns) {
		turns = nil
	}
	v := battleView{
		RoomID:        room.RoomID,
		Status:        room.Status,
		CurrentTurn:   room.CurrentTurn,
		YourTurn:      room.Status == game.RoomActive && room.CurrentPlayer == slot,
		YourSlot:      slot,
		WinnerSlot:    room.Winner,
		TurnDeadline:  room.TurnDeadline,
		You:           room.ParticipantAt(slot),
		Opponent:      room.ParticipantAt(game.OtherSlot(slot)),
		YourState:     room.SnapshotAt(slot),
		OpponentState: room.SnapshotAt(game.OtherSlot(slot)),
		Turns:         turns,
		NextAfter:     len(room.BattleData.Turns),
	}
	if room.Status.Terminal() && room.Winner != 0 {
		won := room.Winner == slot
		v.YouWon = &won
	}
	return v
}

// GetBattle returns the room state shaped for the caller. The optional
// ?after= query carries the client's last-seen log index.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	room, err := h.repo.GetRoomByID(c.Param("roomID"))
	if err != nil {
		serviceError(c, err)
		return
	}
	slot := room.Slot(playerID(c))
	if slot == 0 {
		serviceError(c, service.ErrNotParticipant)
		return
	}
	after := 0
	if s := c.Query("after"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
			return
		}
		after = n
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, viewFor(room, slot, after))
}

// SubmitReady flags the caller ready; the battle starts when both slots are.
func (h *BattleHandler) SubmitReady(c *gin.Context) {
	room, err := service.SubmitReady(h.repo, c.Param("roomID"), playerID(c), h.turnTimeout)
	if err != nil {
		serviceError(c, err)
		return
	}
	service.ScheduleBotTurn(h.repo, h.tuning, h.tiers, h.personalities, room, h.turnTimeout)
	c.JSON(http.StatusOK, viewFor(room, room.Slot(playerID(c)), 0))
}

// SubmitAction applies the caller's move for the current turn.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	var req service.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	room, record, err := service.SubmitAction(h.repo, h.tuning, h.tiers, c.Param("roomID"), playerID(c), req, h.turnTimeout)
	if err != nil {
		serviceError(c, err)
		return
	}
	service.ScheduleBotTurn(h.repo, h.tuning, h.tiers, h.personalities, room, h.turnTimeout)
	c.JSON(http.StatusOK, gin.H{
		"turn":  record,
		"state": viewFor(room, room.Slot(playerID(c)), 0),
	})
}

// SubmitDisconnect is the voluntary forfeit endpoint.
func (h *BattleHandler) SubmitDisconnect(c *gin.Context) {
	room, err := service.SubmitDisconnect(h.repo, h.tiers, c.Param("roomID"), playerID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFor(room, room.Slot(playerID(c)), 0))
}

// Heartbeat refreshes the caller's liveness marker.
func (h *BattleHandler) Heartbeat(c *gin.Context) {
	room, err := service.Heartbeat(h.repo, c.Param("roomID"), playerID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: string(room.Status)})
}

type botMatchRequest struct {
	Sheet       game.AvatarSheet `json:"sheet"`
	BotSheet    game.AvatarSheet `json:"bot_sheet"`
	Personality string           `json:"personality"`
}

// CreateBotMatch opens a practice room against a computer opponent.
func (h *BattleHandler) CreateBotMatch(c *gin.Context) {
	var req botMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMsgInvalidBody})
		return
	}
	room, err := service.CreateBotMatch(h.repo, playerID(c), req.Sheet, req.BotSheet, req.Personality)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewFor(room, 1, 0))
}
