package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/donations/donations/dto"
	"savethedate_backend/internals/features/donations/donations/model"
	eventService "savethedate_backend/internals/features/events/events/service"
)

var (
	ErrDonationNotFound = fiber.NewError(fiber.StatusNotFound, "donation not found")
	ErrDonationDisabled = fiber.NewError(fiber.StatusForbidden, "donation module is not enabled")
)

func FindDonation(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.DonationModel, error) {
	var d model.DonationModel
	if err := db.WithContext(ctx).First(&d, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("load donation: %w", err)
	}
	return &d, nil
}

// CreateDonation stores a pending donation and opens a checkout for it.
// If the gateway fails the row is marked failed and the error is returned.
func CreateDonation(ctx context.Context, db *gorm.DB, gw Gateway, eventID uuid.UUID, req dto.CreateDonationRequest) (*dto.CheckoutResponse, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	mod := ev.Modules().Donation
	if !mod.Enabled {
		return nil, ErrDonationDisabled
	}
	req.Normalize()
	if req.Amount < mod.MinAmount {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("minimum donation amount is %d %s", mod.MinAmount, mod.Currency))
	}

	orderID := NewOrderID()
	d := &model.DonationModel{
		EventID:          eventID,
		DonorName:        req.DonorName,
		Amount:           req.Amount,
		Currency:         mod.Currency,
		Message:          req.Message,
		Anonymous:        req.Anonymous,
		PaymentReference: &orderID,
		Status:           model.DonationStatusPending,
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	checkout, err := gw.CreateCheckout(ctx, d, req.DonorEmail)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("order_id", orderID).Msg("checkout failed")
		if uerr := db.WithContext(ctx).Model(&model.DonationModel{}).
			Where("id = ?", d.ID).
			Update("status", model.DonationStatusFailed).Error; uerr != nil {
			log.Ctx(ctx).Error().Err(uerr).Str("order_id", orderID).Msg("mark donation failed")
		}
		return nil, fiber.NewError(fiber.StatusBadGateway, "payment provider unavailable")
	}

	if err := db.WithContext(ctx).Model(&model.DonationModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"payment_token": checkout.Token,
			"redirect_url":  checkout.RedirectURL,
		}).Error; err != nil {
		return nil, fmt.Errorf("store checkout: %w", err)
	}

	return &dto.CheckoutResponse{
		DonationID:       d.ID,
		PaymentReference: orderID,
		PaymentToken:     checkout.Token,
		RedirectURL:      checkout.RedirectURL,
		Amount:           d.Amount,
		Currency:         d.Currency,
	}, nil
}

// ConfirmDonation is the manual path for payments settled outside the webhook.
func ConfirmDonation(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID, now time.Time) (*model.DonationModel, error) {
	d, err := FindDonation(ctx, db, eventID, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"status": model.DonationStatusCompleted}
	if d.PaidAt == nil {
		paid := now.UTC()
		updates["paid_at"] = paid
		d.PaidAt = &paid
	}
	if err := db.WithContext(ctx).Model(&model.DonationModel{}).Where("id = ?", d.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("confirm donation: %w", err)
	}
	d.Status = model.DonationStatusCompleted
	return d, nil
}

func ListDonations(ctx context.Context, db *gorm.DB, eventID uuid.UUID, status string, offset, limit int) ([]model.DonationModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.DonationModel{}).Where("event_id = ?", eventID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}
	var rows []model.DonationModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	return rows, total, nil
}

// Stats counts completed donations only.
func Stats(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (*dto.DonationStats, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	var agg struct {
		Total int64
		Count int64
	}
	if err := db.WithContext(ctx).Model(&model.DonationModel{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("event_id = ? AND status = ?", eventID, model.DonationStatusCompleted).
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("donation stats: %w", err)
	}
	return &dto.DonationStats{
		TotalAmount: agg.Total,
		TotalCount:  agg.Count,
		Currency:    ev.Modules().Donation.Currency,
	}, nil
}

func DeleteDonation(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ? AND event_id = ?", id, eventID).Delete(&model.DonationModel{})
	if res.Error != nil {
		return fmt.Errorf("delete donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}
