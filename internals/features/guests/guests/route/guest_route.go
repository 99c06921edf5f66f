package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	guestController "savethedate_backend/internals/features/guests/guests/controller"
	"savethedate_backend/internals/middlewares"
)

func GuestPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := guestController.NewGuestController(db, nil)

	lookup := middlewares.IdentifyRateLimiter()

	r := public.Group("/events/:event_id")
	r.Post("/rsvp", ctl.OpenRSVP)
	r.Post("/identify", lookup, ctl.Identify)
	r.Get("/guests/code/:code", lookup, ctl.ByCode)
	r.Get("/program/:code", ctl.Program)
	r.Post("/program/:code/rsvp", ctl.SubEventRSVP)
}

func GuestAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := guestController.NewGuestController(db, nil)

	r := admin.Group("/events/:event_id/guests")
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Get("/stats", ctl.Stats)
	r.Get("/sub-event-stats", ctl.SubEventStats)
	r.Post("/generate-codes", ctl.GenerateCodes)
	r.Post("/import", ctl.Import)
	r.Get("/:guest_id", ctl.Get)
	r.Patch("/:guest_id", ctl.Update)
	r.Delete("/:guest_id", ctl.Delete)
	r.Get("/:guest_id/qrcode", ctl.QRCode)
}
