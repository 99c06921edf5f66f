package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	donationController "savethedate_backend/internals/features/donations/donations/controller"
)

// Base: /api
func DonationPublicRoutes(public fiber.Router, db *gorm.DB, serverKey string) {
	ctl := donationController.NewDonationController(db, nil, nil, serverKey)

	public.Post("/events/:event_id/donations", ctl.Create)
	public.Post("/donations/midtrans/webhook", ctl.MidtransWebhook)
}

// Base: /api/admin
func DonationAdminRoutes(admin fiber.Router, db *gorm.DB, serverKey string) {
	ctl := donationController.NewDonationController(db, nil, nil, serverKey)

	r := admin.Group("/events/:event_id/donations")
	r.Get("/", ctl.List)
	r.Get("/stats", ctl.Stats)
	r.Post("/:id/confirm", ctl.Confirm)
	r.Delete("/:id", ctl.Delete)
}
