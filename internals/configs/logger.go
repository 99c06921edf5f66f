package configs

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	loggerMu        sync.Mutex
	loggerComponent = "api"
)

// InitLogger configures the global zerolog logger for component. LoadEnv applies it
// again so LOG_LEVEL and LOG_FORMAT from .env take effect.
func InitLogger(component string) {
	loggerMu.Lock()
	loggerComponent = component
	loggerMu.Unlock()
	configureLogger()
}

func configureLogger() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(GetEnv("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if strings.EqualFold(GetEnv("LOG_FORMAT", "json"), "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("component", loggerComponent).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
