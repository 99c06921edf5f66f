package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/constants"
	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/uploads/assets/dto"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/storage"
)

type AssetController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Blobs     storage.BlobService
}

func NewAssetController(db *gorm.DB, v *validator.Validate, blobs storage.BlobService) *AssetController {
	if v == nil {
		v = validator.New()
	}
	return &AssetController{DB: db, Validator: v, Blobs: blobs}
}

// POST /api/admin/uploads (multipart: file, folder, event_id?, optimize?)
func (ctl *AssetController) Upload(c *fiber.Ctx) error {
	if ctl.Blobs == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "storage is not configured")
	}
	var form dto.UploadAssetForm
	if err := c.BodyParser(&form); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid form data")
	}
	form.Normalize()
	if err := ctl.Validator.Struct(&form); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrors(err))
	}
	if strings.Contains(form.Folder, "..") {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid folder")
	}
	if id := form.EventUUID(); id != nil {
		if err := eventService.EnsureEventExists(c.UserContext(), ctl.DB, *id); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}

	ct := fh.Header.Get(fiber.HeaderContentType)
	kind := constants.DetectAssetType(ct, fh.Filename)
	ctx := c.UserContext()

	// svg stays vector
	if form.Optimize && kind == constants.AssetTypeImage && !strings.Contains(ct, "svg") {
		url, thumb, err := ctl.Blobs.UploadImage(ctx, form.Dir(), fh)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		out := dto.AssetResponse{URL: url, ContentType: "image/webp", AssetType: kind}
		if thumb != "" {
			out.ThumbnailURL = &thumb
		}
		return helper.JsonCreated(c, "file uploaded", out)
	}

	url, key, contentType, err := ctl.Blobs.UploadRaw(ctx, form.Dir(), fh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	log.Ctx(ctx).Info().Str("key", key).Str("asset_type", kind).Msg("asset uploaded")
	return helper.JsonCreated(c, "file uploaded", dto.AssetResponse{URL: url, Key: key, ContentType: contentType, AssetType: kind})
}

// DELETE /api/admin/uploads
func (ctl *AssetController) Delete(c *fiber.Ctx) error {
	if ctl.Blobs == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "storage is not configured")
	}
	var body dto.DeleteAssetRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Blobs.DeleteByPublicURL(c.UserContext(), body.URL); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "file deleted", fiber.Map{"url": body.URL})
}
