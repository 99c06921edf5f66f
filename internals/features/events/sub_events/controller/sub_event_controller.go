package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/sub_events/dto"
	subEventService "savethedate_backend/internals/features/events/sub_events/service"
	helper "savethedate_backend/internals/helpers"
)

type SubEventController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSubEventController(db *gorm.DB, v *validator.Validate) *SubEventController {
	if v == nil {
		v = validator.New()
	}
	return &SubEventController{DB: db, Validator: v}
}

// GET /events/:event_id/sub-events (ordered by sort_order)
func (ctl *SubEventController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := subEventService.ListSubEvents(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

func (ctl *SubEventController) Get(c *fiber.Ctx) error {
	eventID, id, err := ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	se, err := subEventService.FindSubEvent(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(se))
}

func (ctl *SubEventController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateSubEventRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	se, err := subEventService.CreateSubEvent(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "sub-event created", dto.FromModel(se))
}

func (ctl *SubEventController) Update(c *fiber.Ctx) error {
	eventID, id, err := ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.UpdateSubEventRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	se, err := subEventService.UpdateSubEvent(c.UserContext(), ctl.DB, eventID, id, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "sub-event updated", dto.FromModel(se))
}

func (ctl *SubEventController) Delete(c *fiber.Ctx) error {
	eventID, id, err := ids(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := subEventService.DeleteSubEvent(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "sub-event deleted", fiber.Map{"id": id})
}

// PUT /events/:event_id/sub-events/reorder
func (ctl *SubEventController) Reorder(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.ReorderRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := subEventService.Reorder(c.UserContext(), ctl.DB, eventID, body.IDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "sub-events reordered", fiber.Map{"updated": n})
}

func (ctl *SubEventController) Templates(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", subEventService.Templates())
}

func ids(c *fiber.Ctx) (eventID, id uuid.UUID, err error) {
	eventID, err = helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return
	}
	id, err = helper.ParseUUIDParam(c, "id")
	return
}
