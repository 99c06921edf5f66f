package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	chatController "savethedate_backend/internals/features/social/chat/controller"
)

func ChatPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctl := chatController.NewChatController(db, nil)

	r := public.Group("/events/:event_id/chat")
	r.Post("/", ctl.Post)
	r.Get("/", ctl.List)
}

func ChatAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := chatController.NewChatController(db, nil)

	r := admin.Group("/events/:event_id/chat")
	r.Get("/", ctl.List)
	r.Delete("/:id", ctl.Delete)
}
