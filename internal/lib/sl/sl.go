// Package sl содержит мелкие помощники для slog, общие для всего
// сервиса учета бонусов.
package sl

import "log/slog"

// Err кладет текст ошибки в стандартный атрибут "error", чтобы ошибки
// во всех логах сервиса выглядели одинаково:
//
//	log.Error("failed to save day counts", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
