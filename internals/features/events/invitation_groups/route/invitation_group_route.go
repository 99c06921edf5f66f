package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupController "savethedate_backend/internals/features/events/invitation_groups/controller"
)

func InvitationGroupAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := groupController.NewInvitationGroupController(db, nil)

	admin.Get("/group-templates", ctl.Templates)
	admin.Delete("/events/:event_id/guests/:guest_id/group", ctl.UnassignGuest)

	r := admin.Group("/events/:event_id/groups")
	r.Get("/", ctl.List)
	r.Post("/", ctl.Create)
	r.Post("/from-template", ctl.ApplyTemplate)
	r.Get("/:id", ctl.Get)
	r.Patch("/:id", ctl.Update)
	r.Delete("/:id", ctl.Delete)
	r.Post("/:id/sub-events", ctl.AddSubEvents)
	r.Delete("/:id/sub-events/:sub_event_id", ctl.RemoveSubEvent)
	r.Post("/:id/guests", ctl.AssignGuest)
}
