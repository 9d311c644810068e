package main

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/config"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/service"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

const sweepBatchSize = 50

// startScheduler wires the background maintenance jobs: forcing lapsed turns,
// closing abandoned rooms, expiring challenges and presence, and rolling idle
// users into the current season.
func startScheduler(repo storage.Repository, cfg *config.LoadedConfig) gocron.Scheduler {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("failed to create scheduler", err, nil)
	}

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Second),
		gocron.NewTask(func() {
			service.SweepTurnTimeouts(repo, cfg.Tuning, cfg.Tiers, cfg.TurnTimeout, sweepBatchSize)
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			service.SweepStaleRooms(repo, cfg.Tiers, cfg.HeartbeatTTL, sweepBatchSize)
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if n := service.SweepExpiredChallenges(repo); n > 0 {
				logging.Info("challenges expired", logging.Fields{"count": n})
			}
			service.SweepPresence(repo)
		}),
	)

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			service.SweepStaleSeasons(repo, cfg.Tiers, sweepBatchSize)
		}),
	)

	sched.Start()
	return sched
}
