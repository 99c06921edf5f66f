package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

const (
	EventStatusDraft         = "draft"
	EventStatusPendingReview = "pending_review"
	EventStatusLive          = "live"
	EventStatusSouvenir      = "souvenir"
	EventStatusExpired       = "expired"
)

var EventStatuses = []string{
	EventStatusDraft,
	EventStatusPendingReview,
	EventStatusLive,
	EventStatusSouvenir,
	EventStatusExpired,
}

const (
	PackEssential = "essential"
	PackPremium   = "premium"
	PackVIP       = "vip"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Essential pack may send this many notifications; other packs are unlimited.
const EssentialNotificationQuota = 5

func IsValidEventStatus(s string) bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

/* ===================== Model ===================== */

type EventModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	Slug  string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_events_slug;column:slug" json:"slug"`
	Type  string    `gorm:"type:varchar(50);not null;column:type" json:"type"`
	Title string    `gorm:"type:varchar(200);not null;column:title" json:"title"`

	Subtitle *string `gorm:"type:varchar(300);column:subtitle" json:"subtitle,omitempty"`

	EventDate time.Time  `gorm:"not null;column:event_date" json:"event_date"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Timezone  string     `gorm:"type:varchar(50);not null;default:'Europe/Paris';column:timezone" json:"timezone"`

	Languages       pq.StringArray `gorm:"type:text[];column:languages" json:"languages"`
	DefaultLanguage string         `gorm:"type:varchar(10);not null;default:'fr';column:default_language" json:"default_language"`

	// Full per-event configuration (modules.*, theme, texts)
	Config datatypes.JSON `gorm:"not null;column:config" json:"config"`

	Status string `gorm:"type:varchar(20);not null;default:'draft';index:idx_events_status;column:status" json:"status"`
	Pack   string `gorm:"type:varchar(20);not null;column:pack" json:"pack"`

	BundleIDIOS     *string `gorm:"type:varchar(200);column:bundle_id_ios" json:"bundle_id_ios,omitempty"`
	BundleIDAndroid *string `gorm:"type:varchar(200);column:bundle_id_android" json:"bundle_id_android,omitempty"`
	StoreURLIOS     *string `gorm:"type:varchar(500);column:store_url_ios" json:"store_url_ios,omitempty"`
	StoreURLAndroid *string `gorm:"type:varchar(500);column:store_url_android" json:"store_url_android,omitempty"`
	QRCodeURL       *string `gorm:"type:varchar(500);column:qr_code_url" json:"qr_code_url,omitempty"`

	ClientName  *string `gorm:"type:varchar(200);column:client_name" json:"client_name,omitempty"`
	ClientEmail *string `gorm:"type:varchar(200);column:client_email" json:"client_email,omitempty"`
	ClientPhone *string `gorm:"type:varchar(50);column:client_phone" json:"client_phone,omitempty"`

	PaidAmount    *float64 `gorm:"column:paid_amount" json:"paid_amount,omitempty"`
	PaymentStatus string   `gorm:"type:varchar(20);not null;default:'pending';column:payment_status" json:"payment_status"`

	ExpiresAt         *time.Time `gorm:"index:idx_events_expires_at;column:expires_at" json:"expires_at,omitempty"`
	DataPurgedAt      *time.Time `gorm:"column:data_purged_at" json:"data_purged_at,omitempty"`
	RenewalRemindedAt *time.Time `gorm:"column:renewal_reminded_at" json:"renewal_reminded_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EventModel) TableName() string { return "events" }

/* ===================== Hooks ===================== */

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EventStatusDraft
	}
	if e.PaymentStatus == "" {
		e.PaymentStatus = PaymentStatusPending
	}
	if e.Timezone == "" {
		e.Timezone = "Europe/Paris"
	}
	if e.DefaultLanguage == "" {
		e.DefaultLanguage = "fr"
	}
	if len(e.Languages) == 0 {
		e.Languages = pq.StringArray{e.DefaultLanguage}
	}
	if len(e.Config) == 0 {
		e.Config = datatypes.JSON("{}")
	}
	return nil
}

func (e *EventModel) BeforeSave(tx *gorm.DB) error {
	e.Slug = strings.ToLower(strings.TrimSpace(e.Slug))
	e.Title = strings.TrimSpace(e.Title)
	if e.Status != "" && !IsValidEventStatus(e.Status) {
		return errors.New("invalid event status")
	}
	return nil
}

/* ===================== Helpers ===================== */

// Modules returns the typed view over config.modules.
func (e *EventModel) Modules() Modules {
	return ParseModules(e.Config)
}

// HasClientContact reports whether a renewal reminder can reach the client.
func (e *EventModel) HasClientContact() bool {
	return (e.ClientEmail != nil && strings.TrimSpace(*e.ClientEmail) != "") ||
		(e.ClientPhone != nil && strings.TrimSpace(*e.ClientPhone) != "")
}

// NotificationQuota returns the max sent notifications for the pack, 0 meaning unlimited.
func (e *EventModel) NotificationQuota() int {
	if e.Pack == PackEssential {
		return EssentialNotificationQuota
	}
	return 0
}
