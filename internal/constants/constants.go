package constants

// Centralized constants for headers, env keys and routes.
const (
	// Environment variable keys
	EnvConfigPath = "ARENA_CONFIG"
	EnvDBPath     = "ARENA_DB"
	EnvLogDir     = "ARENA_LOG_DIR"

	// HTTP headers and content types
	HeaderPlayerID    = "X-Player-ID"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Defaults
	DefaultConfigPath = "./arena_config.json"
	DefaultDBPath     = "./arena.db"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteChallenges       = "/challenges"
	RouteChallengeByID    = "/challenges/:challengeID"
	RouteChallengeAccept  = "/challenges/:challengeID/accept"
	RouteChallengeDecline = "/challenges/:challengeID/decline"
	RouteChallengeCancel  = "/challenges/:challengeID/cancel"
	RouteBattleByID       = "/battles/:roomID"
	RouteBattleReady      = "/battles/:roomID/ready"
	RouteBattleAction     = "/battles/:roomID/action"
	RouteBattleDisconnect = "/battles/:roomID/disconnect"
	RouteBattleHeartbeat  = "/battles/:roomID/heartbeat"
	RouteBotMatch         = "/battles/bot"
	RoutePresence         = "/matchmaking/presence"
	RouteOpponent         = "/matchmaking/opponent"
	RouteRanking          = "/ranking"
	RouteRankingSeasons   = "/ranking/seasons"
	RouteRankingApply     = "/ranking/apply"
	RouteLeaderboard      = "/ranking/leaderboard"
	RouteHealth           = "/healthz"
	RouteVersion          = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Error messages returned to clients
const (
	ErrMsgMissingPlayerID = "missing X-Player-ID header"
	ErrMsgInvalidBody     = "invalid request body"
	ErrMsgUnavailable     = "service temporarily unavailable, retry"
)
