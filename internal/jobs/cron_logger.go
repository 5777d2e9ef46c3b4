package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// slogCronLogger routes cron's own messages (skips, recovered panics) to slog.
type slogCronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = slogCronLogger{}

func newCronLogger(logger *slog.Logger) slogCronLogger {
	return slogCronLogger{logger: logger}
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
