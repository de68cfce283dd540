package internal

import (
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   = newLogger()
)

func newLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.Level = logLevel
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogLevel sets the global log level
func SetLogLevel(level zapcore.Level) {
	logLevel.SetLevel(level)
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(zapcore.DebugLevel)
	} else {
		SetLogLevel(zapcore.InfoLevel)
	}
}

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = newLogger()
		return
	}
	logger = l.Sugar()
}

// Logger returns the package logger
func Logger() *zap.SugaredLogger {
	return logger
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	_ = logger.Sync()
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// logUpstreamFailure records an upstream failure with its kind on the operational log
func logUpstreamFailure(op string, err error) {
	fields := []interface{}{"op", op, "kind", ErrorKind(err), "error", err}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, "endpoint", statusErr.Endpoint, "status", statusErr.StatusCode)
	}
	logger.Errorw("upstream request failed", fields...)
}
