package seeds

import (
	"context"

	"gorm.io/gorm"

	eventSeeds "savethedate_backend/internals/seeds/events"
)

const DemoEventFile = "internals/seeds/events/data_demo_event.json"

// RunAllSeeds seeds every event file in order, stopping at the first failure.
func RunAllSeeds(ctx context.Context, db *gorm.DB, files ...string) error {
	if len(files) == 0 {
		files = []string{DemoEventFile}
	}
	for _, f := range files {
		if _, err := eventSeeds.SeedEventFromJSON(ctx, db, f); err != nil {
			return err
		}
	}
	return nil
}
