package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notifController "savethedate_backend/internals/features/notifications/push_notifications/controller"
	"savethedate_backend/internals/helpers/push"
)

func PushNotificationPublicRoutes(public fiber.Router, db *gorm.DB, h *push.Handle) {
	ctl := notifController.NewPushNotificationController(db, nil, h)

	r := public.Group("/events/:event_id/notifications")
	r.Post("/subscribe", ctl.Subscribe)
	r.Post("/unsubscribe", ctl.Unsubscribe)
}

func PushNotificationAdminRoutes(admin fiber.Router, db *gorm.DB, h *push.Handle) {
	ctl := notifController.NewPushNotificationController(db, nil, h)

	r := admin.Group("/events/:event_id/notifications")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.List)
	r.Get("/stats", ctl.Stats)
	r.Get("/:id", ctl.Get)
	r.Delete("/:id", ctl.Cancel)
}
