package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/donations/donations/dto"
	"savethedate_backend/internals/features/donations/donations/model"
)

// StatusFor maps a Midtrans transaction_status to a donation status; "" means leave the row alone.
func StatusFor(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture":
		if strings.EqualFold(fraudStatus, "challenge") {
			return ""
		}
		return model.DonationStatusCompleted
	case "settlement":
		return model.DonationStatusCompleted
	case "expire":
		return model.DonationStatusExpired
	case "cancel":
		return model.DonationStatusCanceled
	case "deny", "failure":
		return model.DonationStatusFailed
	default:
		return ""
	}
}

// VerifySignature checks sha512(order_id+status_code+gross_amount+server_key).
func VerifySignature(n dto.MidtransNotification, serverKey string) bool {
	if serverKey == "" {
		return true
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return strings.EqualFold(hex.EncodeToString(sum[:]), n.SignatureKey)
}

// HandleNotification applies a Midtrans notification to the matching donation.
func HandleNotification(ctx context.Context, db *gorm.DB, n dto.MidtransNotification, now time.Time) (*model.DonationModel, error) {
	orderID := strings.TrimSpace(n.OrderID)
	if orderID == "" || strings.TrimSpace(n.TransactionStatus) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "order_id and transaction_status are required")
	}

	var d model.DonationModel
	if err := db.WithContext(ctx).First(&d, "payment_reference = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("donation with order_id %s not found", orderID))
		}
		return nil, fmt.Errorf("load donation: %w", err)
	}

	status := StatusFor(n.TransactionStatus, n.FraudStatus)
	if status == "" {
		log.Ctx(ctx).Info().Str("order_id", orderID).Str("transaction_status", n.TransactionStatus).Msg("midtrans status ignored")
		return &d, nil
	}
	// A settled donation stays settled.
	if d.Status == model.DonationStatusCompleted && status != model.DonationStatusCompleted {
		log.Ctx(ctx).Warn().Str("order_id", orderID).Str("transaction_status", n.TransactionStatus).Msg("late status for completed donation")
		return &d, nil
	}

	updates := map[string]any{"status": status}
	var paidAt *time.Time
	if status == model.DonationStatusCompleted && d.PaidAt == nil {
		paid := now.UTC()
		paidAt = &paid
		updates["paid_at"] = paid
	}
	if err := db.WithContext(ctx).Model(&model.DonationModel{}).Where("id = ?", d.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update donation: %w", err)
	}
	d.Status = status
	if paidAt != nil {
		d.PaidAt = paidAt
	}
	log.Ctx(ctx).Info().Str("order_id", orderID).Str("status", d.Status).Msg("donation status updated")
	return &d, nil
}
