package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	EventRoute "savethedate_backend/internals/features/events/events/route"
	GroupRoute "savethedate_backend/internals/features/events/invitation_groups/route"
	SubEventRoute "savethedate_backend/internals/features/events/sub_events/route"
	GuestRoute "savethedate_backend/internals/features/guests/guests/route"
)

// Events, program and guest list.
func EventPublicRoutes(r fiber.Router, db *gorm.DB) {
	EventRoute.EventPublicRoutes(r, db)
	SubEventRoute.SubEventPublicRoutes(r, db)
	GuestRoute.GuestPublicRoutes(r, db)
}

func EventAdminRoutes(r fiber.Router, db *gorm.DB) {
	EventRoute.EventAdminRoutes(r, db)
	SubEventRoute.SubEventAdminRoutes(r, db)
	GroupRoute.InvitationGroupAdminRoutes(r, db)
	GuestRoute.GuestAdminRoutes(r, db)
}
