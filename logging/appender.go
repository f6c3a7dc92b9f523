package logging

import (
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// NewStdoutAppender creates a new appender that writes human readable entries to stdout.
func NewStdoutAppender() Appender {
	config := NewLoggerConfig().EncoderConfig
	config.EncodeTime = zapcore.TimeEncoderOfLayout(DefaultTimeFormatStr)
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	)
}

func callerToString(caller *zapcore.EntryCaller) string {
	// The file returned by `runtime.Caller` is a full path and always contains '/' to separate
	// directories. Including on windows. We only want to keep the `<package>/<file>` part of the
	// path. We use a stateful lambda to count back two '/' runes.
	cnt := 0
	idx := len(caller.File) - 1
	for ; idx >= 0; idx-- {
		if caller.File[idx] == '/' {
			cnt++
			if cnt == 2 {
				break
			}
		}
	}

	return caller.File[idx+1:] + ":" + strconv.Itoa(caller.Line)
}
