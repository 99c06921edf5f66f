package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret   string
	AdminAPIKey string
	Debug       bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		err := godotenv.Load()
		configureLogger()
		if err != nil {
			log.Warn().Msg("no .env file found, using system environment")
		} else {
			log.Info().Msg(".env file loaded")
		}
	} else {
		configureLogger()
		log.Info().Msg("running on Railway, using system environment")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AdminAPIKey = GetEnv("ADMIN_API_KEY")
	Debug = GetEnvBool("DEBUG", false)

	if JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, admin bearer tokens are disabled")
	}
	if AdminAPIKey == "" && !Debug {
		log.Warn().Msg("ADMIN_API_KEY is not set")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetEnvList splits a comma separated value, dropping blanks.
func GetEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// =======================
// GORM LOGGER (zerolog)
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if Debug {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		ctxLogger(ctx).Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		ctxLogger(ctx).Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		ctxLogger(ctx).Error().Msgf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	logger := ctxLogger(ctx)

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && !isRecordNotFound(err):
		logger.Error().Err(err).Str("file", utils.FileWithLineNum()).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		logger.Warn().Str("file", utils.FileWithLineNum()).Dur("elapsed", elapsed).Int64("rows", rows).Msg("slow sql: " + sql)
	case l.LogLevel >= gormLogger.Info:
		logger.Debug().Str("file", utils.FileWithLineNum()).Dur("elapsed", elapsed).Int64("rows", rows).Msg(sql)
	}
}

func ctxLogger(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gormLogger.ErrRecordNotFound)
}
