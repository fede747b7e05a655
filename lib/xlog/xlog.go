package xlog

import (
	"errors"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel is read when no level option is given.
const EnvLogLevel = "XLOG_LVL"

var _ XLogger = (*xLogger)(nil) // Type check assertion

// xLogger is wrapper logger of Uber zap logger.
type xLogger struct {
	logger *zap.Logger // skips the wrapper frame
	direct *zap.Logger // for callers outside the wrapper
	level  zap.AtomicLevel
}

func (l *xLogger) Zap() *zap.Logger {
	return l.direct
}

func (l *xLogger) Named(component string) XLogger {
	return &xLogger{
		logger: l.logger.Named(component),
		direct: l.direct.Named(component),
		level:  l.level,
	}
}

// SetLevel we can increase or decrease the log level concurrently.
func (l *xLogger) SetLevel(lvl LogLevel) {
	l.level.SetLevel(lvl.zapLevel())
}

func (l *xLogger) Level() LogLevel {
	return fromZapLevel(l.level.Level())
}

func (l *xLogger) Enabled(lvl LogLevel) bool {
	return l.level.Enabled(lvl.zapLevel())
}

func (l *xLogger) Sync() error {
	return l.logger.Sync()
}

func (l *xLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *xLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *xLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *xLogger) Error(err error, msg string, fields ...zap.Field) {
	l.logger.Error(msg, withError(err, fields)...)
}

func (l *xLogger) Errors(err error, msg string, fields ...zap.Field) {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		l.logger.Error(msg, fields...)
		return
	}
	for i, e := range errs {
		newFields := withError(e, fields)
		newFields = append(newFields, zap.Int("errIdx", i), zap.Int("errTotal", len(errs)))
		l.logger.Error(msg, newFields...)
	}
}

func withError(err error, fields []zap.Field) []zap.Field {
	newFields := make([]zap.Field, 0, len(fields)+3)
	if err != nil {
		newFields = append(newFields, zap.String("error", err.Error()))
	}
	return append(newFields, fields...)
}

type loggerCfg struct {
	name       string
	writer     LogOutWriterType
	encoder    LogEncoderType
	level      *LogLevel
	lvlEncoder zapcore.LevelEncoder
	tsEncoder  zapcore.TimeEncoder
}

func (cfg *loggerCfg) atomicLevel() zap.AtomicLevel {
	if cfg.level != nil {
		return zap.NewAtomicLevelAt(cfg.level.zapLevel())
	}
	lvl, err := ParseLogLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		lvl = LogLevelInfo
	}
	return zap.NewAtomicLevelAt(lvl.zapLevel())
}

func (cfg *loggerCfg) core(lvlEnabler zapcore.LevelEnabler) zapcore.Core {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   cfg.lvlEncoder,
		TimeKey:       "ts",
		EncodeTime:    cfg.tsEncoder,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	return zapcore.NewCore(
		getEncoderByType(cfg.encoder)(config),
		getOutWriterByType(cfg.writer),
		lvlEnabler,
	)
}

type XLoggerOption func(*loggerCfg) error

func NewXLogger(opts ...XLoggerOption) XLogger {
	cfg := &loggerCfg{
		writer:     StdErr,
		encoder:    JSON,
		lvlEncoder: zapcore.CapitalLevelEncoder,
		tsEncoder:  zapcore.ISO8601TimeEncoder,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			panic(err)
		}
	}

	xl := &xLogger{
		level: cfg.atomicLevel(),
	}
	l := zap.New(
		cfg.core(xl.level),
		zap.AddCallerSkip(1), // Use caller filename as service
		zap.AddCaller(),
	)
	if cfg.name != "" {
		l = l.Named(cfg.name)
	}
	xl.logger = l
	xl.direct = l.WithOptions(zap.AddCallerSkip(-1))
	return xl
}

func WithXLoggerName(name string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		cfg.name = name
		return nil
	}
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return errors.New("[XLogger] unknown writer")
		}
		cfg.writer = w
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return errors.New("[XLogger] unknown encoder")
		}
		cfg.encoder = logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if _, err := ParseLogLevel(lvl.String()); err != nil {
			return err
		}
		cfg.level = &lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc != nil {
			cfg.lvlEncoder = lvlEnc
		}
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc != nil {
			cfg.tsEncoder = tsEnc
		}
		return nil
	}
}
