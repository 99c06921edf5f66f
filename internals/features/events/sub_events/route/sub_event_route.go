package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subEventController "savethedate_backend/internals/features/events/sub_events/controller"
)

func SubEventPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := subEventController.NewSubEventController(db, nil)

	r := public.Group("/events/:event_id/sub-events")
	r.Get("/", ctl.List)
}

func SubEventAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := subEventController.NewSubEventController(db, nil)

	admin.Get("/sub-event-templates", ctl.Templates)

	r := admin.Group("/events/:event_id/sub-events")
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Put("/reorder", ctl.Reorder)
	r.Get("/:id", ctl.Get)
	r.Patch("/:id", ctl.Update)
	r.Delete("/:id", ctl.Delete)
}
