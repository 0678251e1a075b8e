package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"browsing-agent/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ output.LoggerPort = (*ZapLogger)(nil)

type Config struct {
	Level string
	// Dir receives one JSON log file per task. Empty disables file logging.
	Dir      string
	TaskName string
	// Console mirrors warnings and errors to stderr.
	Console    bool
	MaxSizeMB  int
	MaxBackups int
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Dir:        "log",
		MaxSizeMB:  50,
		MaxBackups: 3,
	}
}

type ZapLogger struct {
	logger *zap.Logger
	closer io.Closer
}

func New(cfg Config) (*ZapLogger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cores []zapcore.Core
	var closer io.Closer

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.TaskName))
		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, filename),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		closer = file
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(file), level))
	}

	if cfg.Console {
		consoleLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.WarnLevel && level.Enabled(l)
		})
		cores = append(cores, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), consoleLevel))
	}

	if len(cores) == 0 {
		return &ZapLogger{logger: zap.NewNop()}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return &ZapLogger{logger: logger, closer: closer}, nil
}

// NewWithCore wraps an existing core, for example an observer in tests.
func NewWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{logger: zap.New(core)}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func (l *ZapLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...any)  { l.logger.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.logger.Error(msg, fields(args)...) }

func (l *ZapLogger) WithField(key string, value any) output.LoggerPort {
	return &ZapLogger{logger: l.logger.With(zap.Any(key, value)), closer: l.closer}
}

func (l *ZapLogger) WithFields(fields map[string]any) output.LoggerPort {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return &ZapLogger{logger: l.logger.With(zf...), closer: l.closer}
}

func (l *ZapLogger) Close() error {
	_ = l.logger.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// fields turns alternating key/value args into zap fields. A dangling key is
// logged under "!BADKEY".
func fields(args []any) []zap.Field {
	result := make([]zap.Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			result = append(result, zap.Any("!BADKEY", args[i]))
			break
		}
		if err, isErr := args[i+1].(error); isErr {
			result = append(result, zap.NamedError(key, err))
			continue
		}
		result = append(result, zap.Any(key, args[i+1]))
	}
	return result
}

func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "task"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
