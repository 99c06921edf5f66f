package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GuestStatusPending   = "pending"
	GuestStatusConfirmed = "confirmed"
	GuestStatusDeclined  = "declined"
	GuestStatusPartial   = "partial"
)

var GuestStatuses = []string{GuestStatusPending, GuestStatusConfirmed, GuestStatusDeclined, GuestStatusPartial}

type GuestModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_guests_event;column:event_id" json:"event_id"`
	InvitationGroupID *uuid.UUID `gorm:"type:uuid;index:idx_guests_group;column:invitation_group_id" json:"invitation_group_id,omitempty"`

	// Global namespace, assigned lazily and never reassigned.
	PersonalCode *string `gorm:"type:varchar(6);uniqueIndex:uq_guests_personal_code;column:personal_code" json:"personal_code,omitempty"`

	Name      string  `gorm:"type:varchar(200);not null;column:name" json:"name"`
	FirstName *string `gorm:"type:varchar(100);column:first_name" json:"first_name,omitempty"`
	Email     *string `gorm:"type:varchar(200);column:email" json:"email,omitempty"`
	Phone     *string `gorm:"type:varchar(50);column:phone" json:"phone,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_guests_status;column:status" json:"status"`

	PlusOnes     int            `gorm:"not null;default:0;column:plus_ones" json:"plus_ones"`
	PlusOneNames pq.StringArray `gorm:"type:text[];column:plus_one_names" json:"plus_one_names"`

	Dietary       *string        `gorm:"type:varchar(100);column:dietary" json:"dietary,omitempty"`
	Allergies     *string        `gorm:"type:text;column:allergies" json:"allergies,omitempty"`
	MenuChoice    *string        `gorm:"type:varchar(100);column:menu_choice" json:"menu_choice,omitempty"`
	CustomAnswers datatypes.JSON `gorm:"column:custom_answers" json:"custom_answers,omitempty"`

	RSVPDate *time.Time `gorm:"column:rsvp_date" json:"rsvp_date,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GuestModel) TableName() string { return "guests" }

func (g *GuestModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = GuestStatusPending
	}
	return nil
}

func (g *GuestModel) BeforeSave(tx *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.PersonalCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*g.PersonalCode))
		g.PersonalCode = &code
	}
	return nil
}

// Headcount counts the guest plus their plus-ones.
func (g *GuestModel) Headcount() int {
	return 1 + g.PlusOnes
}
