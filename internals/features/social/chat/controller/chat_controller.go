package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/social/chat/dto"
	chatService "savethedate_backend/internals/features/social/chat/service"
	helper "savethedate_backend/internals/helpers"
)

type ChatController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewChatController(db *gorm.DB, v *validator.Validate) *ChatController {
	if v == nil {
		v = validator.New()
	}
	return &ChatController{DB: db, Validator: v}
}

func (ctl *ChatController) Post(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.PostMessageRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := chatService.PostMessage(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "message sent", dto.FromModel(m))
}

func (ctl *ChatController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := chatService.ListMessages(c.UserContext(), ctl.DB, eventID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *ChatController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := chatService.DeleteMessage(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "message deleted", fiber.Map{"id": id})
}
