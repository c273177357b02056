// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках.
package sl

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/middleware"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil возвращает пустую строку, чтобы логирование не паниковало.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// ForRequest возвращает логгер с полями op и request_id текущего запроса.
func ForRequest(ctx context.Context, log *slog.Logger, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(ctx)),
	)
}
