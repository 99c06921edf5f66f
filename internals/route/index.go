package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/configs"
	donationService "savethedate_backend/internals/features/donations/donations/service"
	"savethedate_backend/internals/helpers/push"
	"savethedate_backend/internals/helpers/storage"
	"savethedate_backend/internals/middlewares/auth"
	routeDetails "savethedate_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// Mobile app, no auth. Guests are identified by personal code.
	log.Info().Msg("setting up public group /api")
	public := app.Group("/api")

	// CMS
	log.Info().Msg("setting up admin group /api/admin")
	admin := app.Group("/api/admin", auth.AdminOnly())

	midtransServerKey := configs.GetEnv("MIDTRANS_SERVER_KEY")
	donationService.InitMidtrans(midtransServerKey, configs.GetEnvBool("MIDTRANS_USE_PROD", false))
	if midtransServerKey == "" {
		log.Warn().Msg("MIDTRANS_SERVER_KEY is not set, donation checkout is disabled")
	}

	var blobs storage.BlobService
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if svc, err := storage.NewFromEnv(ctx); err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, uploads are disabled")
	} else {
		blobs = svc
	}

	notifications := push.Default()

	log.Info().Msg("setting up auth routes")
	routeDetails.AuthRoutes(public)

	log.Info().Msg("setting up event routes")
	routeDetails.EventPublicRoutes(public, db)
	routeDetails.EventAdminRoutes(admin, db)

	log.Info().Msg("setting up gallery routes")
	routeDetails.GalleryPublicRoutes(public, db, blobs)
	routeDetails.GalleryAdminRoutes(admin, db, blobs)

	log.Info().Msg("setting up social routes")
	routeDetails.SocialPublicRoutes(public, db)
	routeDetails.SocialAdminRoutes(admin, db)

	log.Info().Msg("setting up donation and notification routes")
	routeDetails.EngagementPublicRoutes(public, db, midtransServerKey, notifications)
	routeDetails.EngagementAdminRoutes(admin, db, midtransServerKey, notifications)

	log.Info().Msg("all routes registered")
}
