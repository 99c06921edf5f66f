package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

/* ===================== Typed view over config.modules ===================== */

type RSVPModule struct {
	Enabled     bool       `json:"enabled"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	MaxPlusOnes int        `json:"max_plus_ones"`
}

type GalleryModule struct {
	Enabled           bool `json:"enabled"`
	AllowUpload       bool `json:"allow_upload"`
	MaxPhotosPerGuest int  `json:"max_photos_per_guest"` // 0 = unlimited
	Moderation        bool `json:"moderation"`
}

type GuestbookModule struct {
	Enabled    bool `json:"enabled"`
	Moderation bool `json:"moderation"`
}

type DonationModule struct {
	Enabled   bool   `json:"enabled"`
	MinAmount int64  `json:"min_amount"`
	Currency  string `json:"currency"`
}

type PlaylistModule struct {
	Enabled                bool `json:"enabled"`
	MaxSuggestionsPerGuest int  `json:"max_suggestions_per_guest"`
}

type SeatingTable struct {
	Name   string   `json:"name"`
	Guests []string `json:"guests"`
}

type SeatingModule struct {
	Enabled     bool           `json:"enabled"`
	Interactive bool           `json:"interactive"`
	Tables      []SeatingTable `json:"tables"`
}

type Modules struct {
	RSVP      RSVPModule      `json:"rsvp"`
	Gallery   GalleryModule   `json:"gallery"`
	Guestbook GuestbookModule `json:"guestbook"`
	Donation  DonationModule  `json:"donation"`
	Playlist  PlaylistModule  `json:"playlist"`
	Seating   SeatingModule   `json:"seating_plan"`
}

const (
	DefaultDonationMinAmount      = 1
	DefaultDonationCurrency       = "EUR"
	DefaultMaxSuggestionsPerGuest = 5
)

func DefaultModules() Modules {
	return Modules{
		Gallery:  GalleryModule{AllowUpload: true},
		Donation: DonationModule{MinAmount: DefaultDonationMinAmount, Currency: DefaultDonationCurrency},
		Playlist: PlaylistModule{MaxSuggestionsPerGuest: DefaultMaxSuggestionsPerGuest},
	}
}

// ParseModules never fails: missing keys, wrong types and malformed JSON fall back to defaults.
func ParseModules(raw datatypes.JSON) Modules {
	m := DefaultModules()
	if len(raw) == 0 {
		return m
	}

	var root map[string]any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return m
	}
	modules := asMap(root["modules"])
	if modules == nil {
		return m
	}

	if rsvp := asMap(modules["rsvp"]); rsvp != nil {
		m.RSVP.Enabled = asBool(rsvp["enabled"], false)
		m.RSVP.Deadline = asTime(rsvp["deadline"])
		m.RSVP.MaxPlusOnes = nonNegative(asInt(rsvp["max_plus_ones"], 0))
	}

	if g := asMap(modules["gallery"]); g != nil {
		m.Gallery.Enabled = asBool(g["enabled"], false)
		m.Gallery.AllowUpload = asBool(g["allow_upload"], true)
		m.Gallery.MaxPhotosPerGuest = nonNegative(asInt(g["max_photos_per_guest"], 0))
		m.Gallery.Moderation = asBool(g["moderation"], false)
	}

	if gb := asMap(modules["guestbook"]); gb != nil {
		m.Guestbook.Enabled = asBool(gb["enabled"], false)
		m.Guestbook.Moderation = asBool(gb["moderation"], false)
	}

	if d := asMap(modules["donation"]); d != nil {
		m.Donation.Enabled = asBool(d["enabled"], false)
		if v := asInt(d["min_amount"], DefaultDonationMinAmount); v > 0 {
			m.Donation.MinAmount = int64(v)
		}
		if cur := strings.ToUpper(strings.TrimSpace(asString(d["currency"]))); cur != "" {
			m.Donation.Currency = cur
		}
	}

	if p := asMap(modules["playlist"]); p != nil {
		m.Playlist.Enabled = asBool(p["enabled"], false)
		if v := asInt(p["max_suggestions_per_guest"], DefaultMaxSuggestionsPerGuest); v > 0 {
			m.Playlist.MaxSuggestionsPerGuest = v
		}
	}

	if s := asMap(modules["seating_plan"]); s != nil {
		m.Seating.Enabled = asBool(s["enabled"], false)
		m.Seating.Interactive = asBool(s["interactive"], false)
		if tables, ok := s["tables"].([]any); ok {
			for _, t := range tables {
				tm := asMap(t)
				if tm == nil {
					continue
				}
				table := SeatingTable{Name: asString(tm["name"])}
				if guests, ok := tm["guests"].([]any); ok {
					for _, g := range guests {
						if name := asString(g); name != "" {
							table.Guests = append(table.Guests, name)
						}
					}
				}
				m.Seating.Tables = append(m.Seating.Tables, table)
			}
		}
	}

	return m
}

/* ===================== Loose readers ===================== */

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asBool(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	case float64:
		return t != 0
	}
	return def
}

func asInt(v any, def int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int64:
		return int(t)
	case int:
		return t
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// asTime accepts RFC 3339, naive date-time (read as UTC) and plain dates (end of that day, UTC).
func asTime(v any) *time.Time {
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return nil
	}
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Second)
		}
		t = t.UTC()
		return &t
	}
	return nil
}

/* ===================== Checks ===================== */

// DeadlinePassed is false when no deadline is configured.
func (r RSVPModule) DeadlinePassed(now time.Time) bool {
	return r.Deadline != nil && now.After(*r.Deadline)
}
