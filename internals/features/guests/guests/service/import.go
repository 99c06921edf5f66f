package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

var importColumns = []string{"name", "first_name", "email", "phone", "group", "plus_ones"}

type importRow struct {
	Name      string
	FirstName string
	Email     string
	Phone     string
	Group     string
	PlusOnes  int
}

/* =======================================================================
   CSV import: upsert by email within the event
======================================================================= */

// ImportGuestsCSV reads a header row then one guest per line.
// Bad rows are reported in Errors and do not stop the import.
// Unknown group names create the group.
func ImportGuestsCSV(ctx context.Context, db *gorm.DB, eventID uuid.UUID, r io.Reader) (*dto.ImportResult, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "empty csv file")
		}
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid csv: "+err.Error())
	}
	idx := columnIndex(header)
	if _, ok := idx["name"]; !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "csv header must contain a name column")
	}

	res := &dto.ImportResult{Errors: []string{}}
	groups := map[string]uuid.UUID{}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.TotalRows++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if blankRecord(rec) {
			continue
		}
		res.TotalRows++

		row, err := parseImportRow(rec, idx)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		created, err := upsertImportRow(ctx, db, eventID, row, groups)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Int("line", line).Msg("guest import row failed")
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if created {
			res.Imported++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

func columnIndex(header []string) map[string]int {
	idx := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, c := range importColumns {
			if key == c {
				idx[c] = i
			}
		}
	}
	return idx
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseImportRow(rec []string, idx map[string]int) (importRow, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := importRow{
		Name:      get("name"),
		FirstName: get("first_name"),
		Email:     strings.ToLower(get("email")),
		Phone:     get("phone"),
		Group:     get("group"),
	}
	if row.Name == "" {
		return row, errors.New("name is required")
	}
	if raw := get("plus_ones"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return row, fmt.Errorf("invalid plus_ones %q", raw)
		}
		row.PlusOnes = n
	}
	return row, nil
}

func upsertImportRow(ctx context.Context, db *gorm.DB, eventID uuid.UUID, row importRow, groups map[string]uuid.UUID) (bool, error) {
	var groupID *uuid.UUID
	if row.Group != "" {
		id, err := resolveImportGroup(ctx, db, eventID, row.Group, groups)
		if err != nil {
			return false, err
		}
		groupID = &id
	}

	if row.Email != "" {
		var existing model.GuestModel
		err := db.WithContext(ctx).
			Where("event_id = ? AND LOWER(email) = ?", eventID, row.Email).
			First(&existing).Error
		if err == nil {
			updates := map[string]any{"name": row.Name, "plus_ones": row.PlusOnes}
			if row.FirstName != "" {
				updates["first_name"] = row.FirstName
			}
			if row.Phone != "" {
				updates["phone"] = row.Phone
			}
			if groupID != nil {
				updates["invitation_group_id"] = *groupID
			}
			if err := db.WithContext(ctx).Model(&model.GuestModel{}).
				Where("id = ?", existing.ID).
				Updates(updates).Error; err != nil {
				return false, fmt.Errorf("update guest: %w", err)
			}
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("find guest: %w", err)
		}
	}

	g := &model.GuestModel{
		EventID:           eventID,
		InvitationGroupID: groupID,
		Name:              row.Name,
		FirstName:         optional(row.FirstName),
		Email:             optional(row.Email),
		Phone:             optional(row.Phone),
		Status:            model.GuestStatusPending,
		PlusOnes:          row.PlusOnes,
		PlusOneNames:      pq.StringArray{},
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return false, fmt.Errorf("create guest: %w", err)
	}
	return true, nil
}

func resolveImportGroup(ctx context.Context, db *gorm.DB, eventID uuid.UUID, name string, cache map[string]uuid.UUID) (uuid.UUID, error) {
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}

	var grp groupModel.InvitationGroupModel
	err := db.WithContext(ctx).
		Where("event_id = ? AND LOWER(name) = ?", eventID, key).
		First(&grp).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		grp = groupModel.InvitationGroupModel{EventID: eventID, Name: name}
		if err := db.WithContext(ctx).Create(&grp).Error; err != nil {
			return uuid.Nil, fmt.Errorf("create group: %w", err)
		}
	default:
		return uuid.Nil, fmt.Errorf("find group: %w", err)
	}
	cache[key] = grp.ID
	return grp.ID, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
