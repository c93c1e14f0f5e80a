package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
	sugar    *zap.SugaredLogger
)

func init() {
	setLogger(newLogger(zapcore.InfoLevel, false))
}

// ConfigureLogger replaces the process logger. level is one of debug, info,
// warn, error; json selects the JSON encoder instead of the console one.
func ConfigureLogger(level string, json bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %v", level, err)
	}
	setLogger(newLogger(lvl, json))
	return nil
}

// SetLogger installs l as the process logger. Tests use it with zaptest or
// zap.NewNop.
func SetLogger(l *zap.Logger) {
	setLogger(l)
}

func newLogger(level zapcore.Level, json bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, stdout, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l < zapcore.ErrorLevel
		})),
		zapcore.NewCore(enc, stderr, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l >= zapcore.ErrorLevel
		})),
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func setLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
	sugar = l.Sugar()
}

func getSugar() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return sugar
}

// Logger returns the structured logger without the caller skip used by the
// printf-style helpers.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger.WithOptions(zap.AddCallerSkip(-1))
}

func LogDebug(format string, v ...interface{}) {
	getSugar().Debugf(format, v...)
}

func LogInfo(format string, v ...interface{}) {
	getSugar().Infof(format, v...)
}

func LogError(format string, v ...interface{}) {
	getSugar().Errorf(format, v...)
}

func LogWarning(format string, v ...interface{}) {
	getSugar().Warnf(format, v...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = getSugar().Sync()
}

func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	LogDebug("%s took %s", name, elapsed)
}
