package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	playlistController "savethedate_backend/internals/features/social/playlist/controller"
)

func PlaylistPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := playlistController.NewPlaylistController(db, nil)

	r := public.Group("/events/:event_id/playlist")
	r.Post("/", ctl.Create)
	r.Get("/", ctl.List)
}

func PlaylistAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := playlistController.NewPlaylistController(db, nil)

	r := admin.Group("/events/:event_id/playlist")
	r.Get("/", ctl.List)
	r.Delete("/:id", ctl.Delete)
}
