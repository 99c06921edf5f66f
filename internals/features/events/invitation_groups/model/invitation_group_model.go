package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Label shown to guests who have no (or a dangling) invitation group.
const DefaultGroupLabel = "Invité"

const DefaultGroupColor = "#C9A96E"

type InvitationGroupModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_invitation_groups_event;column:event_id" json:"event_id"`

	Name        string  `gorm:"type:varchar(100);not null;column:name" json:"name"`
	Description *string `gorm:"type:text;column:description" json:"description,omitempty"`
	Color       string  `gorm:"type:varchar(7);not null;default:'#C9A96E';column:color" json:"color"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InvitationGroupModel) TableName() string { return "invitation_groups" }

func (g *InvitationGroupModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Color == "" {
		g.Color = DefaultGroupColor
	}
	return nil
}

// GroupSubEventModel links a group to one of the sub-events its members are invited to.
type GroupSubEventModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_sub_event,priority:1;column:group_id" json:"group_id"`
	SubEventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_sub_event,priority:2;index:idx_group_sub_events_sub_event;column:sub_event_id" json:"sub_event_id"`
}

func (GroupSubEventModel) TableName() string { return "group_sub_events" }

func (l *GroupSubEventModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
