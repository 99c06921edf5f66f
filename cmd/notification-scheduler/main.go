// Command notification-scheduler sends scheduled push notifications that are due.
// With -loop it keeps polling until interrupted.
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
	"savethedate_backend/internals/helpers/push"
	"savethedate_backend/internals/jobs"
)

func main() {
	loop := flag.Bool("loop", false, "keep running and poll every interval")
	interval := flag.Duration("interval", time.Minute, "poll interval used with -loop")
	flag.Parse()

	configs.InitLogger("notification-scheduler")
	configs.LoadEnv()
	os.Exit(run(*loop, *interval))
}

func run(loop bool, interval time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open()
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return 1
	}
	defer database.Close(db)

	h := push.Default()
	if !loop {
		if _, err := jobs.Notifications(ctx, db, h, time.Now()); err != nil {
			log.Error().Err(err).Msg("processing failed")
			return 1
		}
		return 0
	}

	log.Info().Dur("interval", interval).Msg("polling for due notifications")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := jobs.Notifications(ctx, db, h, time.Now()); err != nil {
			log.Error().Err(err).Msg("processing failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("stopped")
			return 0
		case <-ticker.C:
		}
	}
}
