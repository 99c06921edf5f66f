package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/invitation_groups/dto"
	groupService "savethedate_backend/internals/features/events/invitation_groups/service"
	helper "savethedate_backend/internals/helpers"
)

type InvitationGroupController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewInvitationGroupController(db *gorm.DB, v *validator.Validate) *InvitationGroupController {
	if v == nil {
		v = validator.New()
	}
	return &InvitationGroupController{DB: db, Validator: v}
}

func groupIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return eventID, id, nil
}

func (ctl *InvitationGroupController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := groupService.ListGroups(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

func (ctl *InvitationGroupController) Get(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := groupService.GetGroup(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", g)
}

func (ctl *InvitationGroupController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateGroupRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := groupService.CreateGroup(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "group created", g)
}

func (ctl *InvitationGroupController) Update(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.UpdateGroupRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := groupService.UpdateGroup(c.UserContext(), ctl.DB, eventID, id, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "group updated", g)
}

// Guests of a deleted group fall back to the whole program.
func (ctl *InvitationGroupController) Delete(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := groupService.DeleteGroup(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "group deleted", fiber.Map{"id": id})
}

// POST /events/:event_id/groups/:id/sub-events
func (ctl *InvitationGroupController) AddSubEvents(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.LinkSubEventsRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := groupService.AddSubEvents(c.UserContext(), ctl.DB, eventID, id, body.SubEventIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "sub-events linked", res)
}

// DELETE /events/:event_id/groups/:id/sub-events/:sub_event_id
func (ctl *InvitationGroupController) RemoveSubEvent(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subEventID, err := helper.ParseUUIDParam(c, "sub_event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := groupService.RemoveSubEvent(c.UserContext(), ctl.DB, eventID, id, subEventID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "sub-event unlinked", fiber.Map{"group_id": id, "sub_event_id": subEventID})
}

// POST /events/:event_id/groups/:id/guests
func (ctl *InvitationGroupController) AssignGuest(c *fiber.Ctx) error {
	eventID, id, err := groupIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.AssignGuestRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := groupService.AssignGuest(c.UserContext(), ctl.DB, eventID, id, body.GuestID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "guest assigned", fiber.Map{"group_id": id, "guest_id": body.GuestID})
}

// DELETE /events/:event_id/guests/:guest_id/group
func (ctl *InvitationGroupController) UnassignGuest(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	guestID, err := helper.ParseUUIDParam(c, "guest_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := groupService.UnassignGuest(c.UserContext(), ctl.DB, eventID, guestID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "guest unassigned", fiber.Map{"guest_id": guestID})
}

func (ctl *InvitationGroupController) Templates(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", groupService.Templates())
}

// POST /events/:event_id/groups/from-template
func (ctl *InvitationGroupController) ApplyTemplate(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.ApplyTemplateRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := groupService.ApplyTemplate(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "group created from template", g)
}
