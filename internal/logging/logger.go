package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/richinsley/mailbox"
	"github.com/richinsley/mailbox/internal/config"
)

// Logger wraps zap.Logger with mailbox-specific helpers.
type Logger struct {
	*zap.Logger
}

// Config selects level, encoding and destination. An empty OutputPaths
// logs to stderr; stdout is reserved for the timing summary.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// FromConfig builds the logger configuration of the MAILBOX_LOG_* section.
func FromConfig(c config.LogConfig) Config {
	return Config{Level: c.Level, Development: c.Development}
}

// New creates a logger. Development mode switches to the colored console
// encoder and stack traces on warnings.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Sampling = nil
	zapCfg.Encoding = encodingFormat(cfg.Development)
	zapCfg.EncoderConfig = encoderConfig(cfg.Development)
	zapCfg.OutputPaths = outputs
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDefault returns an info-level JSON logger on stderr, or a no-op logger
// if that cannot be built.
func NewDefault() *Logger {
	logger, err := New(Config{Level: "info"})
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// ForMailbox returns a child logger tagged with the backend, role and kernel
// identifiers of mb.
func (l *Logger) ForMailbox(mb *mailbox.Mailbox) *Logger {
	fields := []zap.Field{
		zap.Stringer("backend", mb.Kind()),
		zap.Stringer("role", mb.Role()),
	}
	if q, ok := mb.Queue(); ok {
		fields = append(fields, zap.Int("key", q.Key), zap.Int("id", q.ID))
	}
	if r, ok := mb.SharedMemory(); ok {
		fields = append(fields, zap.Int("key", r.Key), zap.Int("id", r.ID))
	}
	return &Logger{Logger: l.With(fields...)}
}

func encodingFormat(development bool) string {
	if development {
		return "console"
	}
	return "json"
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return enc
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.SecondsDurationEncoder
	return enc
}
