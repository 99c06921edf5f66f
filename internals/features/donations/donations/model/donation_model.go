package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
	DonationStatusExpired   = "expired"
	DonationStatusCanceled  = "canceled"
)

var DonationStatuses = []string{
	DonationStatusPending,
	DonationStatusCompleted,
	DonationStatusFailed,
	DonationStatusExpired,
	DonationStatusCanceled,
}

/* ===================== Model ===================== */

type DonationModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_donations_event;column:event_id" json:"event_id"`

	DonorName string  `gorm:"type:varchar(200);not null;column:donor_name" json:"donor_name"`
	Amount    int64   `gorm:"not null;column:amount" json:"amount"`
	Currency  string  `gorm:"type:varchar(3);not null;default:'EUR';column:currency" json:"currency"`
	Message   *string `gorm:"type:text;column:message" json:"message,omitempty"`
	Anonymous bool    `gorm:"not null;default:false;column:anonymous" json:"anonymous"`

	// Midtrans order id
	PaymentReference *string `gorm:"type:varchar(100);uniqueIndex:uq_donations_payment_reference;column:payment_reference" json:"payment_reference,omitempty"`
	PaymentToken     *string `gorm:"type:text;column:payment_token" json:"payment_token,omitempty"`
	RedirectURL      *string `gorm:"type:varchar(1000);column:redirect_url" json:"redirect_url,omitempty"`

	Status string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_donations_status;column:status" json:"status"`
	PaidAt *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DonationModel) TableName() string { return "donations" }

func (d *DonationModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DonationStatusPending
	}
	return nil
}

// PublicName hides the donor for anonymous donations.
func (d *DonationModel) PublicName() string {
	if d.Anonymous {
		return "Anonyme"
	}
	return d.DonorName
}
