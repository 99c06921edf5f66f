package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"savethedate_backend/internals/features/events/events/model"
	helper "savethedate_backend/internals/helpers"
)

/* ===================== Create ===================== */

type CreateEventRequest struct {
	Slug            string         `json:"slug" validate:"required,min=2,max=100"`
	Type            string         `json:"type" validate:"required,max=50"`
	Title           string         `json:"title" validate:"required,max=200"`
	Subtitle        *string        `json:"subtitle" validate:"omitempty,max=300"`
	EventDate       time.Time      `json:"event_date" validate:"required"`
	EndDate         *time.Time     `json:"end_date"`
	Timezone        string         `json:"timezone" validate:"omitempty,max=50"`
	Languages       []string       `json:"languages" validate:"omitempty,dive,min=2,max=10"`
	DefaultLanguage string         `json:"default_language" validate:"omitempty,min=2,max=10"`
	Pack            string         `json:"pack" validate:"required,oneof=essential premium vip"`
	Config          map[string]any `json:"config"`

	BundleIDIOS     *string `json:"bundle_id_ios" validate:"omitempty,max=200"`
	BundleIDAndroid *string `json:"bundle_id_android" validate:"omitempty,max=200"`
	StoreURLIOS     *string `json:"store_url_ios" validate:"omitempty,url,max=500"`
	StoreURLAndroid *string `json:"store_url_android" validate:"omitempty,url,max=500"`

	ClientName  *string `json:"client_name" validate:"omitempty,max=200"`
	ClientEmail *string `json:"client_email" validate:"omitempty,email,max=200"`
	ClientPhone *string `json:"client_phone" validate:"omitempty,max=50"`
}

func (r *CreateEventRequest) Normalize() {
	r.Slug = helper.Slugify(r.Slug, 100)
	r.Type = strings.TrimSpace(r.Type)
	r.Title = strings.TrimSpace(r.Title)
	r.Timezone = strings.TrimSpace(r.Timezone)
	r.DefaultLanguage = strings.ToLower(strings.TrimSpace(r.DefaultLanguage))
	r.Subtitle = trimPtr(r.Subtitle)
	r.ClientName = trimPtr(r.ClientName)
	r.ClientEmail = trimPtr(r.ClientEmail)
	r.ClientPhone = trimPtr(r.ClientPhone)
}

// ToModel always starts in draft.
func (r *CreateEventRequest) ToModel() *model.EventModel {
	return &model.EventModel{
		Slug:            r.Slug,
		Type:            r.Type,
		Title:           r.Title,
		Subtitle:        r.Subtitle,
		EventDate:       r.EventDate.UTC(),
		EndDate:         utcPtr(r.EndDate),
		Timezone:        r.Timezone,
		Languages:       pq.StringArray(r.Languages),
		DefaultLanguage: r.DefaultLanguage,
		Config:          ConfigJSON(r.Config),
		Status:          model.EventStatusDraft,
		Pack:            r.Pack,
		BundleIDIOS:     r.BundleIDIOS,
		BundleIDAndroid: r.BundleIDAndroid,
		StoreURLIOS:     r.StoreURLIOS,
		StoreURLAndroid: r.StoreURLAndroid,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
	}
}

/* ===================== Update ===================== */

type UpdateEventRequest struct {
	Slug            *string        `json:"slug" validate:"omitempty,min=2,max=100"`
	Type            *string        `json:"type" validate:"omitempty,max=50"`
	Title           *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Subtitle        *string        `json:"subtitle" validate:"omitempty,max=300"`
	EventDate       *time.Time     `json:"event_date"`
	EndDate         *time.Time     `json:"end_date"`
	Timezone        *string        `json:"timezone" validate:"omitempty,max=50"`
	Languages       []string       `json:"languages" validate:"omitempty,dive,min=2,max=10"`
	DefaultLanguage *string        `json:"default_language" validate:"omitempty,min=2,max=10"`
	Pack            *string        `json:"pack" validate:"omitempty,oneof=essential premium vip"`
	Config          map[string]any `json:"config"`

	BundleIDIOS     *string `json:"bundle_id_ios" validate:"omitempty,max=200"`
	BundleIDAndroid *string `json:"bundle_id_android" validate:"omitempty,max=200"`
	StoreURLIOS     *string `json:"store_url_ios" validate:"omitempty,max=500"`
	StoreURLAndroid *string `json:"store_url_android" validate:"omitempty,max=500"`
	QRCodeURL       *string `json:"qr_code_url" validate:"omitempty,max=500"`

	ClientName    *string  `json:"client_name" validate:"omitempty,max=200"`
	ClientEmail   *string  `json:"client_email" validate:"omitempty,email,max=200"`
	ClientPhone   *string  `json:"client_phone" validate:"omitempty,max=50"`
	PaidAmount    *float64 `json:"paid_amount" validate:"omitempty,gte=0"`
	PaymentStatus *string  `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
}

// NewSlug returns the normalized slug when the request changes it.
func (r *UpdateEventRequest) NewSlug() string {
	if r.Slug == nil {
		return ""
	}
	return helper.Slugify(*r.Slug, 100)
}

// ApplyUpdates returns the column map for a partial update. Status is changed through set-status only.
func (r *UpdateEventRequest) ApplyUpdates() map[string]any {
	m := map[string]any{}
	if s := r.NewSlug(); s != "" {
		m["slug"] = s
	}
	setStr := func(col string, v *string) {
		if v != nil {
			m[col] = strings.TrimSpace(*v)
		}
	}
	setOpt := func(col string, v *string) {
		if v != nil {
			m[col] = trimPtr(v)
		}
	}
	setStr("type", r.Type)
	setStr("title", r.Title)
	setOpt("subtitle", r.Subtitle)
	setStr("timezone", r.Timezone)
	setOpt("bundle_id_ios", r.BundleIDIOS)
	setOpt("bundle_id_android", r.BundleIDAndroid)
	setOpt("store_url_ios", r.StoreURLIOS)
	setOpt("store_url_android", r.StoreURLAndroid)
	setOpt("qr_code_url", r.QRCodeURL)
	setOpt("client_name", r.ClientName)
	setOpt("client_email", r.ClientEmail)
	setOpt("client_phone", r.ClientPhone)
	setStr("pack", r.Pack)
	setStr("payment_status", r.PaymentStatus)

	if r.DefaultLanguage != nil {
		m["default_language"] = strings.ToLower(strings.TrimSpace(*r.DefaultLanguage))
	}
	if r.EventDate != nil {
		m["event_date"] = r.EventDate.UTC()
	}
	if r.EndDate != nil {
		m["end_date"] = r.EndDate.UTC()
	}
	if r.Languages != nil {
		m["languages"] = pq.StringArray(r.Languages)
	}
	if r.Config != nil {
		m["config"] = ConfigJSON(r.Config)
	}
	if r.PaidAmount != nil {
		m["paid_amount"] = *r.PaidAmount
	}
	return m
}

/* ===================== Lifecycle ===================== */

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending_review live souvenir expired"`
}

type RenewRequest struct {
	Months int `json:"months" validate:"omitempty,gte=1,lte=60"`
}

type LifecycleInfo struct {
	EventID             string     `json:"event_id"`
	Status              string     `json:"status"`
	EventDate           time.Time  `json:"event_date"`
	ExpiresAt           *time.Time `json:"expires_at"`
	DaysUntilEvent      int        `json:"days_until_event"`
	DaysUntilExpiration *int       `json:"days_until_expiration"`
	IsPast              bool       `json:"is_past"`
	IsExpiringSoon      bool       `json:"is_expiring_soon"`
	IsExpired           bool       `json:"is_expired"`
	AvailableActions    []string   `json:"available_actions"`
}

/* ===================== Public config ===================== */

type PublicConfigResponse struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	Languages []string       `json:"languages"`
	Status    string         `json:"status"`
	Config    datatypes.JSON `json:"config"`
}

func ToPublicConfig(ev *model.EventModel) PublicConfigResponse {
	return PublicConfigResponse{
		ID:        ev.ID.String(),
		Slug:      ev.Slug,
		Title:     ev.Title,
		Type:      ev.Type,
		Languages: []string(ev.Languages),
		Status:    ev.Status,
		Config:    ev.Config,
	}
}

/* ===================== Helpers ===================== */

func ConfigJSON(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return datatypes.JSON("{}")
	}
	b, err := sonic.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

/* ===================== Seating ===================== */

type SeatingSearchResult struct {
	Found     bool    `json:"found"`
	TableName *string `json:"table_name,omitempty"`
	GuestName *string `json:"guest_name,omitempty"`
	Message   string  `json:"message"`
}
