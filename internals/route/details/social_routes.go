package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ChatRoute "savethedate_backend/internals/features/social/chat/route"
	PlaylistRoute "savethedate_backend/internals/features/social/playlist/route"
)

func SocialPublicRoutes(r fiber.Router, db *gorm.DB) {
	PlaylistRoute.PlaylistPublicRoutes(r, db)
	ChatRoute.ChatPublicRoutes(r, db)
}

func SocialAdminRoutes(r fiber.Router, db *gorm.DB) {
	PlaylistRoute.PlaylistAdminRoutes(r, db)
	ChatRoute.ChatAdminRoutes(r, db)
}
