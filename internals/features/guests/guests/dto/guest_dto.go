package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"savethedate_backend/internals/features/guests/guests/model"
)

/* ===================== CMS: create / update ===================== */

type CreateGuestRequest struct {
	Name              string         `json:"name" validate:"required,max=200"`
	FirstName         *string        `json:"first_name" validate:"omitempty,max=100"`
	Email             *string        `json:"email" validate:"omitempty,email,max=200"`
	Phone             *string        `json:"phone" validate:"omitempty,max=50"`
	InvitationGroupID *uuid.UUID     `json:"invitation_group_id"`
	PlusOnes          int            `json:"plus_ones" validate:"gte=0,lte=20"`
	PlusOneNames      []string       `json:"plus_one_names"`
	Dietary           *string        `json:"dietary" validate:"omitempty,max=100"`
	Allergies         *string        `json:"allergies"`
	MenuChoice        *string        `json:"menu_choice" validate:"omitempty,max=100"`
	CustomAnswers     map[string]any `json:"custom_answers"`
}

func (r *CreateGuestRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.FirstName = trimPtr(r.FirstName)
	r.Email = lowerPtr(r.Email)
	r.Phone = trimPtr(r.Phone)
	r.Dietary = trimPtr(r.Dietary)
	r.Allergies = trimPtr(r.Allergies)
	r.MenuChoice = trimPtr(r.MenuChoice)
}

func (r *CreateGuestRequest) ToModel(eventID uuid.UUID) *model.GuestModel {
	return &model.GuestModel{
		EventID:           eventID,
		InvitationGroupID: r.InvitationGroupID,
		Name:              r.Name,
		FirstName:         r.FirstName,
		Email:             r.Email,
		Phone:             r.Phone,
		Status:            model.GuestStatusPending,
		PlusOnes:          r.PlusOnes,
		PlusOneNames:      pq.StringArray(r.PlusOneNames),
		Dietary:           r.Dietary,
		Allergies:         r.Allergies,
		MenuChoice:        r.MenuChoice,
		CustomAnswers:     ToJSON(r.CustomAnswers),
	}
}

type UpdateGuestRequest struct {
	Name              *string    `json:"name" validate:"omitempty,min=1,max=200"`
	FirstName         *string    `json:"first_name" validate:"omitempty,max=100"`
	Email             *string    `json:"email" validate:"omitempty,email,max=200"`
	Phone             *string    `json:"phone" validate:"omitempty,max=50"`
	Status            *string    `json:"status" validate:"omitempty,oneof=pending confirmed declined partial"`
	PlusOnes          *int       `json:"plus_ones" validate:"omitempty,gte=0,lte=20"`
	PlusOneNames      []string   `json:"plus_one_names"`
	Dietary           *string    `json:"dietary" validate:"omitempty,max=100"`
	Allergies         *string    `json:"allergies"`
	MenuChoice        *string    `json:"menu_choice" validate:"omitempty,max=100"`
	InvitationGroupID *uuid.UUID `json:"invitation_group_id"`
}

// ApplyUpdates returns the column map for a partial update.
func (r *UpdateGuestRequest) ApplyUpdates() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["name"] = strings.TrimSpace(*r.Name)
	}
	if r.FirstName != nil {
		m["first_name"] = trimPtr(r.FirstName)
	}
	if r.Email != nil {
		m["email"] = lowerPtr(r.Email)
	}
	if r.Phone != nil {
		m["phone"] = trimPtr(r.Phone)
	}
	if r.Status != nil {
		m["status"] = *r.Status
	}
	if r.PlusOnes != nil {
		m["plus_ones"] = *r.PlusOnes
	}
	if r.PlusOneNames != nil {
		m["plus_one_names"] = pq.StringArray(r.PlusOneNames)
	}
	if r.Dietary != nil {
		m["dietary"] = trimPtr(r.Dietary)
	}
	if r.Allergies != nil {
		m["allergies"] = trimPtr(r.Allergies)
	}
	if r.MenuChoice != nil {
		m["menu_choice"] = trimPtr(r.MenuChoice)
	}
	if r.InvitationGroupID != nil {
		m["invitation_group_id"] = *r.InvitationGroupID
	}
	return m
}

/* ===================== Mobile: open RSVP ===================== */

type OpenRSVPRequest struct {
	Name          string         `json:"name" validate:"required,max=200"`
	Email         *string        `json:"email" validate:"omitempty,email,max=200"`
	Phone         *string        `json:"phone" validate:"omitempty,max=50"`
	Attending     *bool          `json:"attending"`
	PlusOnes      int            `json:"plus_ones" validate:"gte=0"`
	PlusOneNames  []string       `json:"plus_one_names"`
	Dietary       *string        `json:"dietary" validate:"omitempty,max=100"`
	Allergies     *string        `json:"allergies"`
	MenuChoice    *string        `json:"menu_choice" validate:"omitempty,max=100"`
	CustomAnswers map[string]any `json:"custom_answers"`
}

func (r *OpenRSVPRequest) IsAttending() bool {
	return r.Attending == nil || *r.Attending
}

/* ===================== Identification ===================== */

type IdentifyRequest struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	Email string `json:"email" validate:"omitempty,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
}

type IdentifyResponse struct {
	Found           bool    `json:"found"`
	PersonalCode    *string `json:"personal_code,omitempty"`
	GuestName       *string `json:"guest_name,omitempty"`
	MultipleMatches bool    `json:"multiple_matches"`
	Message         string  `json:"message"`
}

/* ===================== Per sub-event RSVP ===================== */

type SubEventRsvpItem struct {
	SubEventID     uuid.UUID `json:"sub_event_id" validate:"required"`
	Status         string    `json:"status" validate:"required,oneof=confirmed declined"`
	AttendeesCount int       `json:"attendees_count" validate:"omitempty,gte=1,lte=50"`
}

type SubEventRsvpRequest struct {
	Dietary       *string            `json:"dietary" validate:"omitempty,max=100"`
	Allergies     *string            `json:"allergies"`
	CustomAnswers map[string]any     `json:"custom_answers"`
	SubEventRsvps []SubEventRsvpItem `json:"sub_event_rsvps" validate:"required,min=1,dive"`
}

func (r *SubEventRsvpRequest) Normalize() {
	r.Dietary = trimPtr(r.Dietary)
	r.Allergies = trimPtr(r.Allergies)
	for i := range r.SubEventRsvps {
		if r.SubEventRsvps[i].AttendeesCount < 1 {
			r.SubEventRsvps[i].AttendeesCount = 1
		}
	}
}

type SubEventRsvpResult struct {
	Applied     int    `json:"applied"`
	Skipped     int    `json:"skipped"`
	GuestStatus string `json:"guest_status"`
}

/* ===================== Personalized program ===================== */

type SubEventProgram struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Date            string    `json:"date"` // YYYY-MM-DD
	StartTime       *string   `json:"start_time,omitempty"`
	EndTime         *string   `json:"end_time,omitempty"`
	LocationName    *string   `json:"location_name,omitempty"`
	LocationAddress *string   `json:"location_address,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	DressCode       *string   `json:"dress_code,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	RSVPStatus      string    `json:"rsvp_status"`
	AttendeesCount  int       `json:"attendees_count"`
}

type PersonalizedProgram struct {
	GuestID          uuid.UUID         `json:"guest_id"`
	GuestName        string            `json:"guest_name"`
	FirstName        *string           `json:"first_name,omitempty"`
	GroupName        string            `json:"group_name"`
	SubEvents        []SubEventProgram `json:"sub_events"`
	RSVPDeadline     *time.Time        `json:"rsvp_deadline,omitempty"`
	GlobalRSVPStatus string            `json:"global_rsvp_status"`
}

/* ===================== Stats ===================== */

type RSVPStats struct {
	Total             int            `json:"total"`
	Confirmed         int            `json:"confirmed"`
	Declined          int            `json:"declined"`
	Pending           int            `json:"pending"`
	Partial           int            `json:"partial"`
	TotalWithPlusOnes int            `json:"total_with_plus_ones"`
	DietaryBreakdown  map[string]int `json:"dietary_breakdown"`
	MenuBreakdown     map[string]int `json:"menu_breakdown"`
}

type SubEventRsvpStats struct {
	SubEventID     uuid.UUID `json:"sub_event_id"`
	SubEventName   string    `json:"sub_event_name"`
	Confirmed      int       `json:"confirmed"`
	Declined       int       `json:"declined"`
	Pending        int       `json:"pending"`
	TotalAttendees int       `json:"total_attendees"`
}

/* ===================== Bulk ===================== */

type GenerateCodesResult struct {
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Imported  int      `json:"imported"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors"`
}

/* ===================== Helpers ===================== */

func ToJSON(m map[string]any) datatypes.JSON {
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

func lowerPtr(p *string) *string {
	v := trimPtr(p)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}

/* ===================== Public lookup ===================== */

// PublicGuest is what the mobile app gets back from a code lookup; contact fields stay private.
type PublicGuest struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	FirstName         *string    `json:"first_name,omitempty"`
	PersonalCode      *string    `json:"personal_code,omitempty"`
	InvitationGroupID *uuid.UUID `json:"invitation_group_id,omitempty"`
	Status            string     `json:"status"`
	PlusOnes          int        `json:"plus_ones"`
	PlusOneNames      []string   `json:"plus_one_names"`
}

func ToPublicGuest(g *model.GuestModel) PublicGuest {
	names := []string(g.PlusOneNames)
	if names == nil {
		names = []string{}
	}
	return PublicGuest{
		ID:                g.ID,
		Name:              g.Name,
		FirstName:         g.FirstName,
		PersonalCode:      g.PersonalCode,
		InvitationGroupID: g.InvitationGroupID,
		Status:            g.Status,
		PlusOnes:          g.PlusOnes,
		PlusOneNames:      names,
	}
}
