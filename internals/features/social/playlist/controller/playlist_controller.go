package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/social/playlist/dto"
	playlistService "savethedate_backend/internals/features/social/playlist/service"
	helper "savethedate_backend/internals/helpers"
)

type PlaylistController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPlaylistController(db *gorm.DB, v *validator.Validate) *PlaylistController {
	if v == nil {
		v = validator.New()
	}
	return &PlaylistController{DB: db, Validator: v}
}

func (ctl *PlaylistController) Create(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var body dto.CreateSuggestionRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	s, err := playlistService.Suggest(c.UserContext(), ctl.DB, eventID, body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "song suggested", dto.FromModel(s))
}

func (ctl *PlaylistController) List(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 100, 500)
	rows, total, err := playlistService.ListSuggestions(c.UserContext(), ctl.DB, eventID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *PlaylistController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := playlistService.DeleteSuggestion(c.UserContext(), ctl.DB, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "suggestion deleted", fiber.Map{"id": id})
}
