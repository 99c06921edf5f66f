package jobs

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// cronLogger sends cron's own messages (recovered panics, skipped runs) to zerolog.
type cronLogger struct {
	l *zerolog.Logger
}

var _ cron.Logger = cronLogger{}

func newCronLogger() cronLogger {
	l := log.With().Str("scheduler", "cron").Logger()
	return cronLogger{l: &l}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
