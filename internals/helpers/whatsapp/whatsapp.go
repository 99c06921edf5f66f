package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"savethedate_backend/internals/configs"
)

var (
	ErrNotPaired    = errors.New("whatsapp device is not paired, run whatsapp-link first")
	ErrNotOnWA      = errors.New("number is not registered on whatsapp")
	ErrInvalidPhone = errors.New("invalid phone number")
)

const connectTimeout = 30 * time.Second

type Config struct {
	DataDir     string
	CountryCode string // prefix used for national numbers starting with 0
}

func ConfigFromEnv() Config {
	return Config{
		DataDir:     configs.GetEnv("WHATSAPP_DATA_DIR", "./data"),
		CountryCode: configs.GetEnv("WHATSAPP_COUNTRY_CODE", "33"),
	}
}

// Client is a single linked WhatsApp device backed by a local sqlite session store.
type Client struct {
	wa  *whatsmeow.Client
	cfg Config

	readyOnce sync.Once
	ready     chan struct{}
}

func Open(ctx context.Context, cfg Config) (*Client, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("whatsapp data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(cfg.DataDir, "whatsmeow.db"))
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("open whatsapp store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load whatsapp device: %w", err)
	}

	c := &Client{
		wa:    whatsmeow.NewClient(device, nil),
		cfg:   cfg,
		ready: make(chan struct{}),
	}
	c.wa.AddEventHandler(c.handleEvent)
	return c, nil
}

func (c *Client) handleEvent(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		c.readyOnce.Do(func() { close(c.ready) })
		log.Info().Msg("whatsapp connected")
	case *events.Disconnected:
		log.Warn().Msg("whatsapp disconnected")
	case *events.LoggedOut:
		log.Warn().Msg("whatsapp device logged out")
	}
}

func (c *Client) Paired() bool {
	return c.wa.Store.ID != nil
}

// Connect opens the session of an already paired device and waits until it is usable.
func (c *Client) Connect(ctx context.Context) error {
	if !c.Paired() {
		return ErrNotPaired
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("whatsapp connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("whatsapp connect: %w", ctx.Err())
	}
}

// Pair links a new device, writing each QR code to out as terminal art.
func (c *Client) Pair(ctx context.Context, out io.Writer) error {
	if c.Paired() {
		return nil
	}
	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("whatsapp qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("whatsapp connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			q, err := qrcode.New(evt.Code, qrcode.Medium)
			if err != nil {
				fmt.Fprintf(out, "QR code: %s\n", evt.Code)
				continue
			}
			fmt.Fprintln(out, q.ToSmallString(false))
			fmt.Fprintln(out, "WhatsApp > Settings > Linked devices > Link a device, then scan the code above.")
		case "success":
			log.Info().Str("jid", c.wa.Store.ID.String()).Msg("whatsapp device paired")
			return nil
		case "timeout":
			return errors.New("whatsapp pairing timed out")
		default:
			if evt.Error != nil {
				return fmt.Errorf("whatsapp pairing: %w", evt.Error)
			}
			log.Info().Str("event", evt.Event).Msg("whatsapp pairing event")
		}
	}
	return errors.New("whatsapp pairing aborted")
}

// SendText delivers a plain conversation message to phone.
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	number, err := NormalizePhone(phone, c.cfg.CountryCode)
	if err != nil {
		return err
	}

	resp, err := c.wa.IsOnWhatsApp(ctx, []string{"+" + number})
	if err != nil {
		return fmt.Errorf("check whatsapp number: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("%w: %s", ErrNotOnWA, number)
	}
	jid := resp[0].JID
	if jid.IsEmpty() {
		jid = types.NewJID(number, types.DefaultUserServer)
	}

	sent, err := c.wa.SendMessage(ctx, jid, &waE2E.Message{Conversation: &text})
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	log.Ctx(ctx).Debug().Str("jid", jid.String()).Str("message_id", sent.ID).Msg("whatsapp message sent")
	return nil
}

func (c *Client) Close() {
	c.wa.Disconnect()
}

// NormalizePhone returns the digits of an international number without the leading +.
// National numbers (0 followed by nine digits) get countryCode in place of the 0.
func NormalizePhone(phone, countryCode string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	trimmed := strings.TrimSpace(phone)

	switch {
	case strings.HasPrefix(trimmed, "+"):
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) == 10 && countryCode != "":
		digits = countryCode + digits[1:]
	}

	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}
