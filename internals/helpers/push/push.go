// Package push delivers notifications to device topics.
//
// The process holds one Handle. It is initialised on first use and
// never re-initialised; callers ask Available before relying on it.
package push

import (
	"context"
	"errors"
	"strings"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"savethedate_backend/internals/configs"
)

var ErrUnavailable = errors.New("push dispatch is not configured")

type Dispatcher interface {
	// SendToTopic returns the provider message id.
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error)
	Subscribe(ctx context.Context, token, topic string) error
	Unsubscribe(ctx context.Context, token, topic string) error
}

type Handle struct {
	once sync.Once
	init func(ctx context.Context) (Dispatcher, error)
	d    Dispatcher
	err  error
}

// NewHandle wraps an initialiser that runs at most once.
func NewHandle(init func(ctx context.Context) (Dispatcher, error)) *Handle {
	return &Handle{init: init}
}

// Static returns a handle that is already initialised with d (nil means unavailable).
func Static(d Dispatcher) *Handle {
	h := &Handle{d: d}
	if d == nil {
		h.err = ErrUnavailable
	}
	h.once.Do(func() {})
	return h
}

func (h *Handle) Dispatcher(ctx context.Context) (Dispatcher, error) {
	h.once.Do(func() {
		if h.init == nil {
			h.err = ErrUnavailable
			return
		}
		h.d, h.err = h.init(ctx)
		if h.err == nil && h.d == nil {
			h.err = ErrUnavailable
		}
		if h.err != nil {
			log.Warn().Err(h.err).Msg("push dispatch disabled")
		}
	})
	return h.d, h.err
}

func (h *Handle) Available(ctx context.Context) bool {
	_, err := h.Dispatcher(ctx)
	return err == nil
}

var (
	defaultOnce   sync.Once
	defaultHandle *Handle
)

// Default is the process-wide handle configured from the environment:
// NOTIFICATIONS_SIMULATE=true logs instead of sending, otherwise
// FIREBASE_CREDENTIALS_FILE (or FIREBASE_CREDENTIALS json) enables FCM.
func Default() *Handle {
	defaultOnce.Do(func() {
		defaultHandle = NewHandle(FromEnv)
	})
	return defaultHandle
}

func FromEnv(ctx context.Context) (Dispatcher, error) {
	if configs.GetEnvBool("NOTIFICATIONS_SIMULATE", false) {
		log.Info().Msg("push dispatch simulated")
		return LogDispatcher{}, nil
	}

	var opt option.ClientOption
	switch {
	case strings.TrimSpace(configs.GetEnv("FIREBASE_CREDENTIALS_FILE")) != "":
		opt = option.WithCredentialsFile(configs.GetEnv("FIREBASE_CREDENTIALS_FILE"))
	case strings.TrimSpace(configs.GetEnv("FIREBASE_CREDENTIALS")) != "":
		opt = option.WithCredentialsJSON([]byte(configs.GetEnv("FIREBASE_CREDENTIALS")))
	default:
		return nil, ErrUnavailable
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("firebase messaging ready")
	return &FCM{Client: client}, nil
}

/* =======================================================================
   Firebase Cloud Messaging
======================================================================= */

type FCM struct {
	Client *messaging.Client
}

func (f *FCM) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error) {
	return f.Client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Topic:        topic,
	})
}

func (f *FCM) Subscribe(ctx context.Context, token, topic string) error {
	resp, err := f.Client.SubscribeToTopic(ctx, []string{token}, topic)
	return topicError(resp, err)
}

func (f *FCM) Unsubscribe(ctx context.Context, token, topic string) error {
	resp, err := f.Client.UnsubscribeFromTopic(ctx, []string{token}, topic)
	return topicError(resp, err)
}

func topicError(resp *messaging.TopicManagementResponse, err error) error {
	if err != nil {
		return err
	}
	if resp != nil && resp.FailureCount > 0 && len(resp.Errors) > 0 {
		return errors.New(resp.Errors[0].Reason)
	}
	return nil
}

/* =======================================================================
   Simulation
======================================================================= */

// LogDispatcher accepts everything and only logs.
type LogDispatcher struct{}

func (LogDispatcher) SendToTopic(ctx context.Context, topic, title, _ string, _ map[string]string) (string, error) {
	log.Ctx(ctx).Info().Str("topic", topic).Str("title", title).Msg("push simulated")
	return "simulated", nil
}

func (LogDispatcher) Subscribe(ctx context.Context, _ string, topic string) error {
	log.Ctx(ctx).Info().Str("topic", topic).Msg("subscribe simulated")
	return nil
}

func (LogDispatcher) Unsubscribe(ctx context.Context, _ string, topic string) error {
	log.Ctx(ctx).Info().Str("topic", topic).Msg("unsubscribe simulated")
	return nil
}
