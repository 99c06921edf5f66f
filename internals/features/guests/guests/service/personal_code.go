package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/guests/guests/model"
)

// Uppercase letters and digits without 0, O, I, 1, L.
const (
	CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
)

// Upper bound on collisions in a row before giving up; a stuck loop means the store is misbehaving.
const maxCodeAttempts = 64

var alphabetSize = big.NewInt(int64(len(CodeAlphabet)))

// GenerateCode draws CodeLength symbols from crypto/rand.
func GenerateCode() (string, error) {
	b := make([]byte, CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// swapped in tests to force collisions
var generateCode = GenerateCode

// EnsurePersonalCode returns the guest's code, assigning a fresh globally unique one if missing.
// The check-then-write is backed by the unique index: a duplicate key on write means retry.
func EnsurePersonalCode(ctx context.Context, db *gorm.DB, g *model.GuestModel) (string, error) {
	if g.PersonalCode != nil && *g.PersonalCode != "" {
		return *g.PersonalCode, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		var taken int64
		if err := db.WithContext(ctx).Model(&model.GuestModel{}).
			Where("personal_code = ?", code).
			Count(&taken).Error; err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if taken > 0 {
			continue
		}

		res := db.WithContext(ctx).Model(&model.GuestModel{}).
			Where("id = ? AND personal_code IS NULL", g.ID).
			Update("personal_code", code)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				log.Ctx(ctx).Debug().Str("guest_id", g.ID.String()).Msg("personal code collision, retrying")
				continue
			}
			return "", fmt.Errorf("assign code: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			// assigned concurrently; codes are never reassigned so reuse the stored one
			var current model.GuestModel
			if err := db.WithContext(ctx).Select("id", "personal_code").First(&current, "id = ?", g.ID).Error; err != nil {
				return "", fmt.Errorf("reload guest: %w", err)
			}
			if current.PersonalCode == nil {
				return "", fmt.Errorf("guest %s has no code after assignment", g.ID)
			}
			g.PersonalCode = current.PersonalCode
			return *current.PersonalCode, nil
		}

		g.PersonalCode = &code
		return code, nil
	}
	return "", fmt.Errorf("no free personal code after %d attempts", maxCodeAttempts)
}

// GenerateMissingCodes assigns codes to every guest of the event that has none.
// One failing guest does not abort the batch.
func GenerateMissingCodes(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (generated, failed int, err error) {
	var guests []model.GuestModel
	if err := db.WithContext(ctx).
		Where("event_id = ? AND personal_code IS NULL", eventID).
		Order("created_at ASC").
		Find(&guests).Error; err != nil {
		return 0, 0, fmt.Errorf("list guests: %w", err)
	}

	for i := range guests {
		if _, err := EnsurePersonalCode(ctx, db, &guests[i]); err != nil {
			failed++
			log.Ctx(ctx).Error().Err(err).Str("guest_id", guests[i].ID.String()).Msg("generate personal code failed")
			continue
		}
		generated++
	}
	return generated, failed, nil
}

// IsValidCode reports whether s has the personal code shape.
func IsValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(CodeAlphabet); j++ {
			if s[i] == CodeAlphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
