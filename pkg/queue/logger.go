package queue

import (
	"fmt"
	"log/slog"
	"os"
)

// logAdapter satisfies asynq.Logger with an slog.Logger.
type logAdapter struct {
	logger *slog.Logger
}

func newLogAdapter(logger *slog.Logger) *logAdapter {
	return &logAdapter{logger: logger}
}

func (l *logAdapter) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *logAdapter) Info(args ...any)  { l.logger.Info(fmt.Sprint(args...)) }
func (l *logAdapter) Warn(args ...any)  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *logAdapter) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }

func (l *logAdapter) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
