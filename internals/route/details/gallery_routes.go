package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	GuestbookRoute "savethedate_backend/internals/features/gallery/guestbook/route"
	PhotoRoute "savethedate_backend/internals/features/gallery/photos/route"
	AssetRoute "savethedate_backend/internals/features/uploads/assets/route"
	"savethedate_backend/internals/helpers/storage"
)

func GalleryPublicRoutes(r fiber.Router, db *gorm.DB, blobs storage.BlobService) {
	PhotoRoute.PhotoPublicRoutes(r, db, blobs)
	GuestbookRoute.GuestbookPublicRoutes(r, db)
}

func GalleryAdminRoutes(r fiber.Router, db *gorm.DB, blobs storage.BlobService) {
	PhotoRoute.PhotoAdminRoutes(r, db, blobs)
	GuestbookRoute.GuestbookAdminRoutes(r, db)
	AssetRoute.AssetAdminRoutes(r, db, blobs)
}
