package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventController "savethedate_backend/internals/features/events/events/controller"
)

func EventPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := eventController.NewEventController(db, nil)

	public.Get("/events/:ref/config", ctl.PublicConfig)
	public.Get("/events/:event_id/seating", ctl.Seating)
}

func EventAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := eventController.NewEventController(db, nil)

	r := admin.Group("/events")
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Get("/:event_id", ctl.Get)
	r.Patch("/:event_id", ctl.Update)
	r.Delete("/:event_id", ctl.Delete)

	r.Put("/:event_id/status", ctl.SetStatus)
	r.Post("/:event_id/renew", ctl.Renew)
	r.Get("/:event_id/lifecycle", ctl.Lifecycle)
}
