package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	guestbookController "savethedate_backend/internals/features/gallery/guestbook/controller"
)

func GuestbookPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := guestbookController.NewGuestbookController(db, nil)

	r := public.Group("/events/:event_id/guestbook")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.ListPublic)
}

func GuestbookAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := guestbookController.NewGuestbookController(db, nil)

	r := admin.Group("/events/:event_id/guestbook")
	r.Get("/", ctl.ListAdmin)
	r.Put("/:id/approve", ctl.Approve)
	r.Delete("/:id", ctl.Delete)
}
