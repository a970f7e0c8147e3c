package log

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger sends gorm's slow-query, error and (at debug) SQL trace
// output through the global logger. Record-not-found is not logged since
// the repositories turn it into a domain error.
func GormLogger() gormlogger.Interface {
	var level gormlogger.LogLevel
	switch lvl := L().GetLevel(); {
	case lvl == zerolog.Disabled:
		level = gormlogger.Silent
	case lvl <= zerolog.DebugLevel:
		level = gormlogger.Info
	case lvl >= zerolog.ErrorLevel:
		level = gormlogger.Error
	default:
		level = gormlogger.Warn
	}

	return gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	L().Warn().Str(FieldSource, "gorm").Msgf(format, args...)
}
