package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/donations/donations/model"
)

type CreateDonationRequest struct {
	DonorName  string  `json:"donor_name" validate:"required,max=200"`
	DonorEmail string  `json:"donor_email" validate:"omitempty,email"`
	Amount     int64   `json:"amount" validate:"required,gt=0"`
	Message    *string `json:"message" validate:"omitempty,max=2000"`
	Anonymous  bool    `json:"anonymous"`
}

func (r *CreateDonationRequest) Normalize() {
	r.DonorName = strings.TrimSpace(r.DonorName)
	r.DonorEmail = strings.TrimSpace(r.DonorEmail)
	if r.Message != nil {
		m := strings.TrimSpace(*r.Message)
		if m == "" {
			r.Message = nil
		} else {
			r.Message = &m
		}
	}
}

// Midtrans HTTP notification; only the fields the status mapping needs.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

type CheckoutResponse struct {
	DonationID       uuid.UUID `json:"donation_id"`
	PaymentReference string    `json:"payment_reference"`
	PaymentToken     string    `json:"payment_token"`
	RedirectURL      string    `json:"redirect_url,omitempty"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
}

type DonationResponse struct {
	ID               uuid.UUID  `json:"id"`
	EventID          uuid.UUID  `json:"event_id"`
	DonorName        string     `json:"donor_name"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Message          *string    `json:"message,omitempty"`
	Anonymous        bool       `json:"anonymous"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func FromModel(d *model.DonationModel) DonationResponse {
	return DonationResponse{
		ID:               d.ID,
		EventID:          d.EventID,
		DonorName:        d.PublicName(),
		Amount:           d.Amount,
		Currency:         d.Currency,
		Message:          d.Message,
		Anonymous:        d.Anonymous,
		PaymentReference: d.PaymentReference,
		Status:           d.Status,
		PaidAt:           d.PaidAt,
		CreatedAt:        d.CreatedAt,
	}
}

func FromModels(rows []model.DonationModel) []DonationResponse {
	out := make([]DonationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type DonationStats struct {
	TotalAmount int64  `json:"total_amount"`
	TotalCount  int64  `json:"total_count"`
	Currency    string `json:"currency"`
}
