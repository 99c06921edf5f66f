package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/features/events/events/model"
)

// ReminderSender delivers a renewal reminder to the event's client.
type ReminderSender interface {
	SendRenewalReminder(ctx context.Context, ev *model.EventModel) error
}

// TextSender sends a plain text message to a phone number.
type TextSender interface {
	SendText(ctx context.Context, phone, text string) error
}

// LogReminderSender only records the reminder.
type LogReminderSender struct{}

func (LogReminderSender) SendRenewalReminder(ctx context.Context, ev *model.EventModel) error {
	e := log.Ctx(ctx).Info().
		Str("event_id", ev.ID.String()).
		Str("title", ev.Title)
	if ev.ExpiresAt != nil {
		e = e.Time("expires_at", *ev.ExpiresAt)
	}
	if ev.ClientEmail != nil {
		e = e.Str("client_email", *ev.ClientEmail)
	}
	e.Msg("renewal reminder due")
	return nil
}

// PhoneReminderSender texts the client when a phone is known and falls back otherwise.
type PhoneReminderSender struct {
	Texts    TextSender
	Fallback ReminderSender
}

func (s PhoneReminderSender) SendRenewalReminder(ctx context.Context, ev *model.EventModel) error {
	if s.Texts == nil || ev.ClientPhone == nil || strings.TrimSpace(*ev.ClientPhone) == "" {
		if s.Fallback == nil {
			return LogReminderSender{}.SendRenewalReminder(ctx, ev)
		}
		return s.Fallback.SendRenewalReminder(ctx, ev)
	}
	if err := s.Texts.SendText(ctx, *ev.ClientPhone, RenewalReminderText(ev)); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func RenewalReminderText(ev *model.EventModel) string {
	name := "Bonjour"
	if ev.ClientName != nil && *ev.ClientName != "" {
		name = "Bonjour " + *ev.ClientName
	}
	until := "bientôt"
	if ev.ExpiresAt != nil {
		until = "le " + ev.ExpiresAt.UTC().Format("02/01/2006")
	}
	return fmt.Sprintf(
		"%s, l'espace souvenir \"%s\" expire %s. Répondez à ce message pour le prolonger et garder vos photos et messages.",
		name, ev.Title, until,
	)
}

// reminderWindow is how far ahead of expiry a reminder goes out.
const reminderWindow = ExpiringSoonDays * 24 * time.Hour
