// Command jobs runs every background job on a cron schedule in one process.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	database "savethedate_backend/internals/databases"
	"savethedate_backend/internals/helpers/push"
	"savethedate_backend/internals/jobs"
)

func main() {
	configs.InitLogger("jobs")
	configs.LoadEnv()
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open()
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return 1
	}
	defer database.Close(db)

	deps := jobs.LifecycleDepsFromEnv(ctx)
	defer deps.Close()

	notificationsSpec := configs.GetEnv("NOTIFICATIONS_CRON", jobs.DefaultNotificationsSpec)
	lifecycleSpec := configs.GetEnv("LIFECYCLE_CRON", jobs.DefaultLifecycleSpec)

	c, err := jobs.NewScheduler(db, push.Default(), deps, notificationsSpec, lifecycleSpec)
	if err != nil {
		log.Error().Err(err).Msg("invalid schedule")
		return 1
	}

	// catch up on anything missed while the runner was down
	if _, err := jobs.Lifecycle(ctx, db, deps, false, time.Now()); err != nil {
		log.Error().Err(err).Msg("initial lifecycle run failed")
	}

	c.Start()
	log.Info().Str("notifications", notificationsSpec).Str("lifecycle", lifecycleSpec).Msg("scheduler started")

	<-ctx.Done()
	log.Info().Msg("stopping scheduler")
	<-c.Stop().Done()
	return 0
}
