package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"savethedate_backend/internals/configs"
	eventService "savethedate_backend/internals/features/events/events/service"
)

const (
	defaultDeeplinkBase = "https://app.savethedate.local/e"
	qrSize              = 512
)

// PersonalCodeLink is the deep link encoded in a guest's QR code.
func PersonalCodeLink(base, slug, code string) string {
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/%s?code=%s", base, url.PathEscape(slug), url.QueryEscape(code))
}

// GuestQRCode renders a PNG pointing at the guest's personal link, assigning a code when missing.
func GuestQRCode(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID) ([]byte, string, error) {
	g, err := FindGuest(ctx, db, eventID, guestID)
	if err != nil {
		return nil, "", err
	}
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, "", err
	}
	code, err := EnsurePersonalCode(ctx, db, g)
	if err != nil {
		return nil, "", err
	}

	link := PersonalCodeLink(configs.GetEnv("APP_DEEPLINK_BASE", defaultDeeplinkBase), ev.Slug, code)
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, "", fmt.Errorf("encode qr: %w", err)
	}
	return png, code, nil
}
