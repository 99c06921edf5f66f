package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/gallery/photos/dto"
	photoService "savethedate_backend/internals/features/gallery/photos/service"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/storage"
)

type PhotoController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Blobs     storage.BlobService
}

func NewPhotoController(db *gorm.DB, v *validator.Validate, blobs storage.BlobService) *PhotoController {
	if v == nil {
		v = validator.New()
	}
	return &PhotoController{DB: db, Validator: v, Blobs: blobs}
}

/* ============================================
   UPLOAD (mobile, multipart)
   POST /api/events/:event_id/photos
============================================ */

func (ctl *PhotoController) Upload(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if ctl.Blobs == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "storage is not configured")
	}

	var form dto.UploadPhotoForm
	if err := c.BodyParser(&form); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form")
	}
	if err := ctl.Validator.Struct(&form); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}

	p, err := photoService.UploadPhoto(c.UserContext(), ctl.DB, ctl.Blobs, eventID, photoService.UploadInput{
		UploadedBy: form.UploadedBy,
		Caption:    form.Caption,
		File:       fh,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "photo uploaded", dto.FromModel(p))
}

/* ============================================
   READ
============================================ */

// Public lists only approved photos.
func (ctl *PhotoController) ListPublic(c *fiber.Ctx) error {
	return ctl.list(c, true)
}

// Admin lists everything unless ?approved_only=true.
func (ctl *PhotoController) ListAdmin(c *fiber.Ctx) error {
	approvedOnly, _ := strconv.ParseBool(c.Query("approved_only", "false"))
	return ctl.list(c, approvedOnly)
}

func (ctl *PhotoController) list(c *fiber.Ctx, approvedOnly bool) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := photoService.ListPhotos(c.UserContext(), ctl.DB, eventID, approvedOnly, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p))
}

func (ctl *PhotoController) Get(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := photoService.FindPhoto(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(p))
}

/* ============================================
   MODERATION (admin)
============================================ */

func (ctl *PhotoController) Approve(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := photoService.ApprovePhoto(c.UserContext(), ctl.DB, eventID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "photo approved", dto.FromModel(p))
}

func (ctl *PhotoController) Delete(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := photoService.DeletePhoto(c.UserContext(), ctl.DB, ctl.Blobs, eventID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "photo deleted", fiber.Map{"id": id})
}
