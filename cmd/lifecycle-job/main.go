// Command lifecycle-job runs the daily event lifecycle once: status sweep,
// renewal reminders and, on the 1st of the month or with -retention, the data retention sweep.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	database "savethedate_backend/internals/databases"
	"savethedate_backend/internals/jobs"
)

func main() {
	retention := flag.Bool("retention", false, "run the retention sweep regardless of the date")
	flag.Parse()

	configs.InitLogger("lifecycle-job")
	configs.LoadEnv()
	os.Exit(run(*retention))
}

func run(forceRetention bool) int {
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

	report, err := jobs.Lifecycle(ctx, db, deps, forceRetention, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("lifecycle job failed")
		return 1
	}
	log.Info().
		Int("souvenir", report.Status.Souvenir).
		Int("expired", report.Status.Expired).
		Int("reminders_failed", report.RemindersFailed).
		Int("retention_events", report.Retention.Events).
		Msg("done")
	return 0
}
