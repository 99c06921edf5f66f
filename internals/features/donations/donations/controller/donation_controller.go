package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/donations/donations/dto"
	"savethedate_backend/internals/features/donations/donations/model"
	donationService "savethedate_backend/internals/features/donations/donations/service"
	helper "savethedate_backend/internals/helpers"
)

type DonationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Gateway   donationService.Gateway
	ServerKey string
}

func NewDonationController(db *gorm.DB, v *validator.Validate, gw donationService.Gateway, serverKey string) *DonationController {
	if v == nil {
		v = validator.New()
	}
	if gw == nil {
		gw = donationService.SnapGateway{}
	}
	return &DonationController{DB: db, Validator: v, Gateway: gw, ServerKey: serverKey}
}

func httpErr(c *fiber.Ctx, code int, msg string) error {
	return helper.JsonError(c, code, msg)
}

/* ============================================
   CREATE (mobile)
   POST /api/events/:event_id/donations
============================================ */

func (ctl *DonationController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateDonationRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := donationService.CreateDonation(c.UserContext(), ctl.DB, ctl.Gateway, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "donation created, continue to payment", res)
}

/* ============================================
   MIDTRANS WEBHOOK
   POST /api/donations/midtrans/webhook
============================================ */

func (ctl *DonationController) MidtransWebhook(c *fiber.Ctx) error {
	var body dto.MidtransNotification
	if err := c.BodyParser(&body); err != nil {
		return httpErr(c, fiber.StatusBadRequest, "invalid webhook payload")
	}
	if !donationService.VerifySignature(body, ctl.ServerKey) {
		log.Ctx(c.UserContext()).Warn().Str("order_id", body.OrderID).Msg("midtrans signature mismatch")
		return httpErr(c, fiber.StatusForbidden, "invalid signature")
	}
	if _, err := donationService.HandleNotification(c.UserContext(), ctl.DB, body, time.Now()); err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

/* ============================================
   ADMIN
============================================ */

// GET /api/admin/events/:event_id/donations?status=
func (ctl *DonationController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && !isDonationStatus(status) {
		return httpErr(c, fiber.StatusBadRequest, "invalid status filter")
	}
	p := helper.ResolvePaging(c, 50, 200)

	rows, total, err := donationService.ListDonations(c.UserContext(), ctl.DB, eventID, status, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *DonationController) Stats(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := donationService.Stats(c.UserContext(), ctl.DB, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

func (ctl *DonationController) Confirm(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	d, err := donationService.ConfirmDonation(c.UserContext(), ctl.DB, eventID, id, time.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "donation confirmed", dto.FromModel(d))
}

func (ctl *DonationController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := donationService.DeleteDonation(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "donation deleted", fiber.Map{"id": id})
}

func isDonationStatus(s string) bool {
	for _, v := range model.DonationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
