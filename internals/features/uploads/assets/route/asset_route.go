package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assetController "savethedate_backend/internals/features/uploads/assets/controller"
	"savethedate_backend/internals/helpers/storage"
)

func AssetAdminRoutes(admin fiber.Router, db *gorm.DB, blobs storage.BlobService) {
	ctl := assetController.NewAssetController(db, nil, blobs)

	r := admin.Group("/uploads")
	r.Post("/", ctl.Upload)
	r.Delete("/", ctl.Delete)
}
