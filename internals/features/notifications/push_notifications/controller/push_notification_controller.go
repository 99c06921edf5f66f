package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/notifications/push_notifications/dto"
	"savethedate_backend/internals/features/notifications/push_notifications/model"
	notifService "savethedate_backend/internals/features/notifications/push_notifications/service"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/push"
)

type PushNotificationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Push      *push.Handle
}

func NewPushNotificationController(db *gorm.DB, v *validator.Validate, h *push.Handle) *PushNotificationController {
	if v == nil {
		v = validator.New()
	}
	if h == nil {
		h = push.Default()
	}
	return &PushNotificationController{DB: db, Validator: v, Push: h}
}

// POST /api/admin/events/:event_id/notifications
func (ctl *PushNotificationController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateNotificationRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := notifService.CreateNotification(c.UserContext(), ctl.DB, ctl.Push, eventID, body, time.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "notification sent"
	switch n.Status {
	case model.NotificationStatusScheduled:
		msg = "notification scheduled"
	case model.NotificationStatusFailed:
		msg = "notification stored, delivery failed"
	}
	return helper.JsonCreated(c, msg, dto.FromModel(n))
}

// GET /api/admin/events/:event_id/notifications?status=
func (ctl *PushNotificationController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && !isStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "status must be one of draft, scheduled, sent, failed")
	}
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := notifService.ListNotifications(c.UserContext(), ctl.DB, eventID, status, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *PushNotificationController) Get(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := notifService.FindNotification(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(n))
}

func (ctl *PushNotificationController) Cancel(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := notifService.CancelNotification(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "notification canceled", fiber.Map{"id": id})
}

func (ctl *PushNotificationController) Stats(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	stats, err := notifService.Stats(c.UserContext(), ctl.DB, ctl.Push, eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

// POST /api/events/:event_id/notifications/subscribe
func (ctl *PushNotificationController) Subscribe(c *fiber.Ctx) error {
	return ctl.topics(c, true)
}

// POST /api/events/:event_id/notifications/unsubscribe
func (ctl *PushNotificationController) Unsubscribe(c *fiber.Ctx) error {
	return ctl.topics(c, false)
}

func (ctl *PushNotificationController) topics(c *fiber.Ctx, subscribe bool) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.SubscribeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	if subscribe {
		res, err := notifService.Subscribe(c.UserContext(), ctl.DB, ctl.Push, eventID, body)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonOK(c, "subscribed", res)
	}
	res, err := notifService.Unsubscribe(c.UserContext(), ctl.DB, ctl.Push, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "unsubscribed", res)
}

func isStatus(s string) bool {
	for _, st := range model.NotificationStatuses {
		if st == s {
			return true
		}
	}
	return false
}
