// Command whatsapp-link pairs the reminder sender with a WhatsApp account
// by printing a QR code in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	"savethedate_backend/internals/helpers/whatsapp"
)

func main() {
	configs.InitLogger("whatsapp-link")
	configs.LoadEnv()
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	cfg := whatsapp.ConfigFromEnv()
	wa, err := whatsapp.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("open whatsapp store")
		return 1
	}
	defer wa.Close()

	if wa.Paired() {
		log.Info().Str("data_dir", cfg.DataDir).Msg("device already paired")
		return 0
	}
	if err := wa.Pair(ctx, os.Stdout); err != nil {
		log.Error().Err(err).Msg("pairing failed")
		return 1
	}
	log.Info().Str("data_dir", cfg.DataDir).Msg("device paired")
	return 0
}
