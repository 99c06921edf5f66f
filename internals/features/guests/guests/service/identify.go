package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

var ErrGuestNotFound = fiber.NewError(fiber.StatusNotFound, "guest not found")

const (
	msgIdentifyNotFound = "Votre nom n'a pas été trouvé. Vérifiez l'orthographe ou contactez les mariés."
	msgIdentifyMultiple = "Plusieurs personnes correspondent. Veuillez préciser avec votre email ou téléphone."
	msgIdentifyWelcome  = "Bienvenue !"
)

// Identify resolves a guest from a name fragment, optionally narrowed by email and phone.
// Ambiguous and empty results are structured outcomes, never errors, and never carry guest data.
func Identify(ctx context.Context, db *gorm.DB, eventID uuid.UUID, in dto.IdentifyRequest) (*dto.IdentifyResponse, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := NormalizePhone(in.Phone)
	if name == "" && email == "" && phone == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name, email or phone is required")
	}

	q := db.WithContext(ctx).Model(&model.GuestModel{}).Where("event_id = ?", eventID)
	if name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if email != "" {
		q = q.Where("LOWER(email) = ?", email)
	}
	if phone != "" {
		q = q.Where(`REPLACE(REPLACE(REPLACE(phone, ' ', ''), '-', ''), '.', '') LIKE ? ESCAPE '\'`, "%"+escapeLike(phone)+"%")
	}

	// two rows are enough to tell "one" from "many"
	var matches []model.GuestModel
	if err := q.Order("created_at ASC").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("identify guest: %w", err)
	}

	switch len(matches) {
	case 0:
		return &dto.IdentifyResponse{Found: false, Message: msgIdentifyNotFound}, nil
	case 1:
	default:
		return &dto.IdentifyResponse{Found: false, MultipleMatches: true, Message: msgIdentifyMultiple}, nil
	}

	g := matches[0]
	code, err := EnsurePersonalCode(ctx, db, &g)
	if err != nil {
		return nil, err
	}
	return &dto.IdentifyResponse{
		Found:        true,
		PersonalCode: &code,
		GuestName:    &g.Name,
		Message:      msgIdentifyWelcome,
	}, nil
}

// FindByCode looks a guest up by personal code inside one event; the code is case-insensitive.
func FindByCode(ctx context.Context, db *gorm.DB, eventID uuid.UUID, code string) (*model.GuestModel, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrGuestNotFound
	}
	var g model.GuestModel
	if err := db.WithContext(ctx).
		Where("event_id = ? AND personal_code = ?", eventID, code).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("find guest by code: %w", err)
	}
	return &g, nil
}

func FindGuest(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID) (*model.GuestModel, error) {
	var g model.GuestModel
	if err := db.WithContext(ctx).
		Where("id = ? AND event_id = ?", guestID, eventID).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("find guest: %w", err)
	}
	return &g, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizePhone drops spaces, dashes and dots.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(strings.TrimSpace(phone))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
