package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServiceName tags every entry when no service name is configured.
const DefaultServiceName = "quillpost"

// Config holds logger configuration. It is filled from LOG_LEVEL,
// LOG_PRETTY and LOG_SERVICE_NAME by config.Load.
type Config struct {
	Level       string `mapstructure:"level"`
	Pretty      bool   `mapstructure:"pretty"`
	ServiceName string `mapstructure:"service_name"`
}

var (
	global zerolog.Logger
	once   sync.Once
)

func init() {
	global = New(Config{})
}

// New creates a logger writing JSON lines, or console output when Pretty is set, to stdout.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = DefaultServiceName
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().Timestamp().Str(FieldService, name).
		Logger()
}

// Init replaces the global logger. Only the first call has an effect.
func Init(cfg Config) {
	once.Do(func() {
		global = New(cfg)
	})
}

// L returns the global logger.
func L() *zerolog.Logger {
	return &global
}

// parseLevel accepts zerolog level names plus "warning" and "off".
// Anything unrecognised logs at info.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
