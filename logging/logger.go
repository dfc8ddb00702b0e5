package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devfolio/projects-api/config"
)

// Init configures the global zerolog logger. Console output is colourised for development;
// when a log file is configured every event is also appended to a rotating JSON file.
func Init(settings config.LogSettings) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(Writer(settings)).With().Timestamp().Str("service", "projects-api").Logger()
}

// Writer assembles the output for the configured format and optional log file.
func Writer(settings config.LogSettings) io.Writer {
	var out io.Writer = os.Stdout
	if settings.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if settings.File == "" {
		return out
	}

	file := &lumberjack.Logger{
		Filename:   settings.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(out, file)
}

// GormLogger routes gorm's SQL logging through the global zerolog logger.
func GormLogger(slowThreshold time.Duration) gormlogger.Interface {
	return gormlogger.New(
		stdlog.New(log.Logger.With().Str("component", "gorm").Logger(), "", 0),
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
