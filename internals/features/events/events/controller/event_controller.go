package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/events/dto"
	eventService "savethedate_backend/internals/features/events/events/service"
	helper "savethedate_backend/internals/helpers"
)

type EventController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	// Now is overridable in tests.
	Now func() time.Time
}

func NewEventController(db *gorm.DB, v *validator.Validate) *EventController {
	if v == nil {
		v = validator.New()
	}
	return &EventController{DB: db, Validator: v, Now: time.Now}
}

/* =======================================================================
   CMS
======================================================================= */

// GET /api/admin/events?status=
func (ctl *EventController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	rows, total, err := eventService.ListEvents(c.UserContext(), ctl.DB, status, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *EventController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := eventService.FindEvent(c.UserContext(), ctl.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", ev)
}

func (ctl *EventController) Create(c *fiber.Ctx) error {
	var body dto.CreateEventRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := eventService.CreateEvent(c.UserContext(), ctl.DB, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "event created", ev)
}

func (ctl *EventController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.UpdateEventRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := eventService.UpdateEvent(c.UserContext(), ctl.DB, id, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "event updated", ev)
}

func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := eventService.DeleteEvent(c.UserContext(), ctl.DB, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "event deleted", fiber.Map{"id": id})
}

/* =======================================================================
   Lifecycle
======================================================================= */

// PUT /api/admin/events/:event_id/status
func (ctl *EventController) SetStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.SetStatusRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := eventService.SetStatus(c.UserContext(), ctl.DB, id, body.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "status updated", ev)
}

// POST /api/admin/events/:event_id/renew
func (ctl *EventController) Renew(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.RenewRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	ev, err := eventService.Renew(c.UserContext(), ctl.DB, id, body.Months, ctl.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "event renewed", ev)
}

// GET /api/admin/events/:event_id/lifecycle
func (ctl *EventController) Lifecycle(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ev, err := eventService.FindEvent(c.UserContext(), ctl.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", eventService.Introspect(ev, ctl.Now()))
}

/* =======================================================================
   Mobile
======================================================================= */

// GET /api/events/:ref/config (ref is an id or a slug)
func (ctl *EventController) PublicConfig(c *fiber.Ctx) error {
	ev, err := eventService.FindEventByRef(c.UserContext(), ctl.DB, c.Params("ref"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToPublicConfig(ev))
}

// GET /api/events/:event_id/seating?name=
func (ctl *EventController) Seating(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := eventService.SearchSeating(c.UserContext(), ctl.DB, id, c.Query("name"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}
