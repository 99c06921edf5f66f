package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	AdminAuthRoute "savethedate_backend/internals/features/auth/admin/route"
	DonationRoute "savethedate_backend/internals/features/donations/donations/route"
	NotificationRoute "savethedate_backend/internals/features/notifications/push_notifications/route"
	"savethedate_backend/internals/helpers/push"
)

func AuthRoutes(r fiber.Router) {
	AdminAuthRoute.AuthRoutes(r)
}

// Donations (Midtrans) and push notifications.
func EngagementPublicRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, h *push.Handle) {
	DonationRoute.DonationPublicRoutes(r, db, midtransServerKey)
	NotificationRoute.PushNotificationPublicRoutes(r, db, h)
}

func EngagementAdminRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string, h *push.Handle) {
	DonationRoute.DonationAdminRoutes(r, db, midtransServerKey)
	NotificationRoute.PushNotificationAdminRoutes(r, db, h)
}
