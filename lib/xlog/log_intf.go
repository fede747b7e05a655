package xlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var ErrUnknownLevel = fmt.Errorf("[XLogger] unknown level, want one of %s, %s, %s or %s",
	LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)

// ParseLogLevel is case-insensitive and ignores surrounding blanks.
func ParseLogLevel(s string) (LogLevel, error) {
	switch lvl := LogLevel(strings.ToUpper(strings.TrimSpace(s))); lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl, nil
	default:
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func (lvl LogLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func fromZapLevel(lvl zapcore.Level) LogLevel {
	switch {
	case lvl >= zapcore.ErrorLevel:
		return LogLevelError
	case lvl == zapcore.WarnLevel:
		return LogLevelWarn
	case lvl == zapcore.InfoLevel:
		return LogLevelInfo
	default:
	}
	return LogLevelDebug
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	StdErr
	testMemAsOut
	_writerMax
)

const coreKeyIgnored = ""

var (
	writerLock = sync.RWMutex{}
	writerMap  = map[LogOutWriterType]zapcore.WriteSyncer{
		StdOut: &zapcore.BufferedWriteSyncer{WS: os.Stdout, Size: 64 * 1024, FlushInterval: 5 * time.Second},
		StdErr: zapcore.Lock(os.Stderr),
	}
	encoderMap = map[LogEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
		JSON:      zapcore.NewJSONEncoder,
		PlainText: zapcore.NewConsoleEncoder,
	}
)

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func getOutWriterByType(typ LogOutWriterType) zapcore.WriteSyncer {
	writerLock.RLock()
	defer writerLock.RUnlock()
	out, ok := writerMap[typ]
	if !ok {
		return zapcore.Lock(os.Stderr)
	}
	return out
}

func setOutWriter(typ LogOutWriterType, ws zapcore.WriteSyncer) {
	writerLock.Lock()
	defer writerLock.Unlock()
	writerMap[typ] = ws
}

// XLogger mainly implemented by Uber zap logger.
//
// Zap exposes the underlying logger so the trees, which accept a
// *zap.Logger, write through the same core, level and writer.
// Loggers returned by Named share the level of their parent.
type XLogger interface {
	Zap() *zap.Logger
	Named(component string) XLogger

	SetLevel(lvl LogLevel)
	Level() LogLevel
	Enabled(lvl LogLevel) bool
	Sync() error

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	// Errors writes one entry per error combined by multierr.
	Errors(err error, msg string, fields ...zap.Field)
}
