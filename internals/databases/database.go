package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"savethedate_backend/internals/configs"
	donationModel "savethedate_backend/internals/features/donations/donations/model"
	eventModel "savethedate_backend/internals/features/events/events/model"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	guestbookModel "savethedate_backend/internals/features/gallery/guestbook/model"
	photoModel "savethedate_backend/internals/features/gallery/photos/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
	notificationModel "savethedate_backend/internals/features/notifications/push_notifications/model"
	chatModel "savethedate_backend/internals/features/social/chat/model"
	playlistModel "savethedate_backend/internals/features/social/playlist/model"
)

var DB *gorm.DB

// Models in dependency order, used by AutoMigrate.
func Models() []any {
	return []any{
		&eventModel.EventModel{},
		&subEventModel.SubEventModel{},
		&groupModel.InvitationGroupModel{},
		&groupModel.GroupSubEventModel{},
		&guestModel.GuestModel{},
		&guestModel.GuestSubEventRsvpModel{},
		&photoModel.PhotoModel{},
		&guestbookModel.GuestbookEntryModel{},
		&donationModel.DonationModel{},
		&notificationModel.PushNotificationModel{},
		&playlistModel.PlaylistSuggestionModel{},
		&chatModel.ChatMessageModel{},
	}
}

// GormConfig is shared by production and test connections.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

func DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=savethedate&options=-c statement_timeout=5000",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME", "savethedate"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)
}

// Open connects to PostgreSQL without touching the package-level DB.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func ConnectDB() {
	log.Info().Msg("connecting to PostgreSQL")
	db, err := Open()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	DB = db
	log.Info().Msg("database connected")

	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := AutoMigrate(DB); err != nil {
			log.Fatal().Err(err).Msg("auto migrate failed")
		}
		log.Info().Msg("schema migrated")
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Warn().Err(err).Msg("pool tune failed")
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, DB); err != nil {
			log.Warn().Err(err).Msg("warm-up ping failed")
			return
		}
		DB.WithContext(ctx).Exec("SELECT 1 FROM events LIMIT 1")
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool; used by one-shot jobs.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
