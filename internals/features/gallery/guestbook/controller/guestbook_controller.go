package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/gallery/guestbook/dto"
	guestbookService "savethedate_backend/internals/features/gallery/guestbook/service"
	helper "savethedate_backend/internals/helpers"
)

type GuestbookController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewGuestbookController(db *gorm.DB, v *validator.Validate) *GuestbookController {
	if v == nil {
		v = validator.New()
	}
	return &GuestbookController{DB: db, Validator: v}
}

// POST /api/events/:event_id/guestbook
func (ctl *GuestbookController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateEntryRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	e, err := guestbookService.CreateEntry(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "message posted", dto.FromModel(e))
}

func (ctl *GuestbookController) ListPublic(c *fiber.Ctx) error { return ctl.list(c, true) }

func (ctl *GuestbookController) ListAdmin(c *fiber.Ctx) error {
	approvedOnly, _ := strconv.ParseBool(c.Query("approved_only", "false"))
	return ctl.list(c, approvedOnly)
}

func (ctl *GuestbookController) list(c *fiber.Ctx, approvedOnly bool) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := guestbookService.ListEntries(c.UserContext(), ctl.DB, eventID, approvedOnly, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *GuestbookController) Approve(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	e, err := guestbookService.ApproveEntry(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "message approved", dto.FromModel(e))
}

func (ctl *GuestbookController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guestbookService.DeleteEntry(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "message deleted", fiber.Map{"id": id})
}
