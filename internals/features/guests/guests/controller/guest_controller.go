package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/constants"
	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
	guestService "savethedate_backend/internals/features/guests/guests/service"
	helper "savethedate_backend/internals/helpers"
)

type GuestController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Now       func() time.Time
}

func NewGuestController(db *gorm.DB, v *validator.Validate) *GuestController {
	if v == nil {
		v = validator.New()
	}
	return &GuestController{DB: db, Validator: v, Now: time.Now}
}

func guestIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	guestID, err := helper.ParseUUIDParam(c, "guest_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return eventID, guestID, nil
}

/* =======================================================================
   Mobile
======================================================================= */

// POST /api/events/:event_id/rsvp
func (ctl *GuestController) OpenRSVP(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.OpenRSVPRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := guestService.SubmitOpenRSVP(c.UserContext(), ctl.DB, eventID, body, ctl.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "RSVP recorded", dto.ToPublicGuest(g))
}

// POST /api/events/:event_id/identify
func (ctl *GuestController) Identify(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.IdentifyRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := guestService.Identify(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, res.Message, res)
}

// GET /api/events/:event_id/guests/code/:code
func (ctl *GuestController) ByCode(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := guestService.FindByCode(c.UserContext(), ctl.DB, eventID, c.Params("code"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToPublicGuest(g))
}

// GET /api/events/:event_id/program/:code
func (ctl *GuestController) Program(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	prog, err := guestService.BuildProgram(c.UserContext(), ctl.DB, eventID, c.Params("code"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", prog)
}

// POST /api/events/:event_id/program/:code/rsvp
func (ctl *GuestController) SubEventRSVP(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.SubEventRsvpRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := guestService.SubmitSubEventRSVP(c.UserContext(), ctl.DB, eventID, c.Params("code"), body, ctl.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "RSVP recorded", res)
}

/* =======================================================================
   CMS
======================================================================= */

// GET /api/admin/events/:event_id/guests?status=&group_id=&q=
func (ctl *GuestController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	groupID, err := helper.ParseOptionalUUIDQuery(c, "group_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && !isGuestStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of pending, confirmed, declined, partial")
	}
	p := helper.ResolvePaging(c, 50, 500)
	rows, total, err := guestService.ListGuests(c.UserContext(), ctl.DB, eventID, guestService.ListFilter{
		Status:  status,
		GroupID: groupID,
		Search:  c.Query("q"),
		Offset:  p.Offset,
		Limit:   p.Limit,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ctl *GuestController) Get(c *fiber.Ctx) error {
	eventID, guestID, err := guestIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := guestService.FindGuest(c.UserContext(), ctl.DB, eventID, guestID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", g)
}

func (ctl *GuestController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateGuestRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := guestService.CreateGuest(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "guest created", g)
}

func (ctl *GuestController) Update(c *fiber.Ctx) error {
	eventID, guestID, err := guestIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.UpdateGuestRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	g, err := guestService.UpdateGuest(c.UserContext(), ctl.DB, eventID, guestID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "guest updated", g)
}

func (ctl *GuestController) Delete(c *fiber.Ctx) error {
	eventID, guestID, err := guestIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := guestService.DeleteGuest(c.UserContext(), ctl.DB, eventID, guestID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "guest deleted", fiber.Map{"id": guestID})
}

// GET /api/admin/events/:event_id/guests/stats
func (ctl *GuestController) Stats(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := guestService.GuestStats(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

// GET /api/admin/events/:event_id/guests/sub-event-stats
func (ctl *GuestController) SubEventStats(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := guestService.SubEventStats(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

// POST /api/admin/events/:event_id/guests/generate-codes
func (ctl *GuestController) GenerateCodes(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := eventService.EnsureEventExists(c.UserContext(), ctl.DB, eventID); err != nil {
		return helper.FromFiberError(c, err)
	}
	generated, failed, err := guestService.GenerateMissingCodes(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, fmt.Sprintf("%d codes generated", generated), dto.GenerateCodesResult{Generated: generated, Failed: failed})
}

// POST /api/admin/events/:event_id/guests/import (multipart "file")
func (ctl *GuestController) Import(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > constants.MaxImportSize {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "csv file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read file")
	}
	defer f.Close()

	res, err := guestService.ImportGuestsCSV(c.UserContext(), ctl.DB, eventID, f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, fmt.Sprintf("%d guests imported, %d updated", res.Imported, res.Updated), res)
}

// GET /api/admin/events/:event_id/guests/:guest_id/qrcode
func (ctl *GuestController) QRCode(c *fiber.Ctx) error {
	eventID, guestID, err := guestIDs(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	png, code, err := guestService.GuestQRCode(c.UserContext(), ctl.DB, eventID, guestID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="guest-%s.png"`, code))
	return c.Send(png)
}

func isGuestStatus(s string) bool {
	for _, st := range model.GuestStatuses {
		if st == s {
			return true
		}
	}
	return false
}
