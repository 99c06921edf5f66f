package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

// ProgramSubEvents returns the sub-events relevant to a guest and the label of their group.
// No group, or a group that no longer exists, means every sub-event of the event.
func ProgramSubEvents(ctx context.Context, db *gorm.DB, g *model.GuestModel) ([]subEventModel.SubEventModel, string, error) {
	var subEvents []subEventModel.SubEventModel
	label := groupModel.DefaultGroupLabel

	var group *groupModel.InvitationGroupModel
	if g.InvitationGroupID != nil {
		var grp groupModel.InvitationGroupModel
		err := db.WithContext(ctx).
			Where("id = ? AND event_id = ?", *g.InvitationGroupID, g.EventID).
			First(&grp).Error
		switch {
		case err == nil:
			group = &grp
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, "", fmt.Errorf("load group: %w", err)
		}
	}

	q := db.WithContext(ctx).Model(&subEventModel.SubEventModel{}).Where("sub_events.event_id = ?", g.EventID)
	if group != nil {
		label = group.Name
		q = q.Joins("JOIN group_sub_events ON group_sub_events.sub_event_id = sub_events.id").
			Where("group_sub_events.group_id = ?", group.ID)
	}
	if err := q.Order("sub_events.sort_order ASC, sub_events.date ASC").Find(&subEvents).Error; err != nil {
		return nil, "", fmt.Errorf("load sub-events: %w", err)
	}
	return subEvents, label, nil
}

// BuildProgram is a read-only projection of the guest's schedule merged with their RSVPs.
func BuildProgram(ctx context.Context, db *gorm.DB, eventID uuid.UUID, code string) (*dto.PersonalizedProgram, error) {
	g, err := FindByCode(ctx, db, eventID, code)
	if err != nil {
		return nil, err
	}
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}

	subEvents, label, err := ProgramSubEvents(ctx, db, g)
	if err != nil {
		return nil, err
	}
	rows, err := loadRSVPRows(ctx, db, g.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.GuestSubEventRsvpModel, len(rows))
	for _, r := range rows {
		byID[r.SubEventID] = r
	}

	items := make([]dto.SubEventProgram, 0, len(subEvents))
	for _, se := range subEvents {
		item := dto.SubEventProgram{
			ID:              se.ID,
			Slug:            se.Slug,
			Name:            se.Name,
			Date:            se.Date.UTC().Format("2006-01-02"),
			StartTime:       se.StartTime,
			EndTime:         se.EndTime,
			LocationName:    se.LocationName,
			LocationAddress: se.LocationAddress,
			Latitude:        se.Latitude,
			Longitude:       se.Longitude,
			DressCode:       se.DressCode,
			Notes:           se.Notes,
			RSVPStatus:      model.RSVPStatusPending,
			AttendeesCount:  1,
		}
		if r, ok := byID[se.ID]; ok {
			item.RSVPStatus = r.Status
			item.AttendeesCount = r.AttendeesCount
		}
		items = append(items, item)
	}

	return &dto.PersonalizedProgram{
		GuestID:          g.ID,
		GuestName:        g.Name,
		FirstName:        g.FirstName,
		GroupName:        label,
		SubEvents:        items,
		RSVPDeadline:     ev.Modules().RSVP.Deadline,
		GlobalRSVPStatus: GlobalRSVPStatus(rows),
	}, nil
}
