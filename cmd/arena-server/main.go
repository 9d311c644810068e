package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/api"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/constants"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
)

func main() {
	// Local development keeps its settings in a .env file; production sets
	// real environment variables.
	_ = godotenv.Load()

	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg := loadConfigOrExit(configPath)

	if err := logging.Init(logging.Options{Level: cfg.LogLevel, Dir: logDir(cfg.LogDir)}); err != nil {
		logging.Fatal("failed to initialize logging", err, nil)
	}
	defer logging.Sync()

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = constants.DefaultDBPath
	}
	repo := createRepositoryOrExit(dbPath)

	handler := api.NewBattleHandler(repo, cfg.Tuning, cfg.Tiers, cfg.Personalities, cfg.TurnTimeout, cfg.ChallengeTTL, cfg.PresenceTTL)

	sched := startScheduler(repo, cfg)
	defer func() { _ = sched.Shutdown() }()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, func(c *gin.Context) {
			c.JSON(200, gin.H{constants.JSONKeyStatus: "ok"})
		})
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		// Player endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.PlayerRequired())

		protected.POST(constants.RouteChallenges, handler.CreateChallenge)
		protected.GET(constants.RouteChallengeByID, handler.GetChallenge)
		protected.POST(constants.RouteChallengeAccept, handler.AcceptChallenge)
		protected.POST(constants.RouteChallengeDecline, handler.DeclineChallenge)
		protected.POST(constants.RouteChallengeCancel, handler.CancelChallenge)

		protected.POST(constants.RouteBotMatch, handler.CreateBotMatch)
		protected.GET(constants.RouteBattleByID, handler.GetBattle)
		protected.POST(constants.RouteBattleReady, handler.SubmitReady)
		protected.POST(constants.RouteBattleAction, handler.SubmitAction)
		protected.POST(constants.RouteBattleDisconnect, handler.SubmitDisconnect)
		protected.POST(constants.RouteBattleHeartbeat, handler.Heartbeat)

		protected.POST(constants.RoutePresence, handler.AnnouncePresence)
		protected.DELETE(constants.RoutePresence, handler.WithdrawPresence)
		protected.GET(constants.RouteOpponent, handler.FindOpponent)

		protected.GET(constants.RouteRanking, handler.GetMyRanking)
		protected.GET(constants.RouteRankingSeasons, handler.GetSeasonArchives)
		protected.POST(constants.RouteRankingApply, handler.ApplyRankingResult)
	}

	logging.Info("arena server listening", logging.Fields{"address": cfg.ServerAddress})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("server exited", err, nil)
	}
}

func logDir(fromConfig string) string {
	if env := os.Getenv(constants.EnvLogDir); env != "" {
		return env
	}
	return fromConfig
}
