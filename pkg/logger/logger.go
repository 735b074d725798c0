package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger to provide additional functionality
type Logger struct {
	zerolog.Logger
}

// Config holds the logger configuration
type Config struct {
	// Level is the minimum level to log
	Level string

	// Format specifies the output format (json or console)
	Format string

	// Output specifies where to write logs (stdout or stderr)
	Output string

	// TimeFormat specifies the format for timestamps
	TimeFormat string
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// New creates a new logger instance with the provided configuration.
// A nil config produces a console logger at info level on stderr; logs
// go to stderr so they never interleave with the stdio streams attached
// to a running container.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			TimeFormat: defaultTimeFormat,
		}
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaultTimeFormat
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}

	if strings.ToLower(cfg.Format) == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	logger := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger}
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Logger: l.With().Interface(key, value).Logger()}
}

// WithError creates a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With().Err(err).Logger()}
}

// WithTarget adds a launch target name to the logger
func (l *Logger) WithTarget(target string) *Logger {
	return l.WithField("target", target)
}

// ParseLevel converts a string level to zerolog.Level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
