// Command seed loads demo events from JSON files.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	database "savethedate_backend/internals/databases"
	"savethedate_backend/internals/seeds"
)

func main() {
	migrate := flag.Bool("migrate", false, "create or update the schema before seeding")
	flag.Parse()

	configs.InitLogger("seed")
	configs.LoadEnv()
	os.Exit(run(*migrate, flag.Args()))
}

func run(migrate bool, files []string) int {
	db, err := database.Open()
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return 1
	}
	defer database.Close(db)

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("auto migrate failed")
			return 1
		}
	}
	if err := seeds.RunAllSeeds(context.Background(), db, files...); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		return 1
	}
	return 0
}
