package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	photoController "savethedate_backend/internals/features/gallery/photos/controller"
	"savethedate_backend/internals/helpers/storage"
)

// Base: /api
func PhotoPublicRoutes(public fiber.Router, db *gorm.DB, blobs storage.BlobService) {
	ctl := photoController.NewPhotoController(db, nil, blobs)

	r := public.Group("/events/:event_id/photos")
	r.Post("/", ctl.Upload)
	r.Get("/", ctl.ListPublic)
	r.Get("/:id", ctl.Get)
}

// Base: /api/admin
func PhotoAdminRoutes(admin fiber.Router, db *gorm.DB, blobs storage.BlobService) {
	ctl := photoController.NewPhotoController(db, nil, blobs)

	r := admin.Group("/events/:event_id/photos")
	r.Get("/", ctl.ListAdmin)
	r.Get("/:id", ctl.Get)
	r.Put("/:id/approve", ctl.Approve)
	r.Delete("/:id", ctl.Delete)
}
