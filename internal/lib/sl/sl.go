// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// CronLogger адаптирует slog.Logger к интерфейсу логгера robfig/cron.
type CronLogger struct {
	Log *slog.Logger
}

// Info пишет служебные сообщения планировщика на уровне Debug.
func (l CronLogger) Info(msg string, keysAndValues ...any) {
	l.Log.Debug(msg, keysAndValues...)
}

// Error пишет ошибки планировщика.
func (l CronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.Log.Error(msg, append(keysAndValues, Err(err))...)
}
