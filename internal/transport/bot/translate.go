package bot

import "github.com/NastyaGoryachaya/chat-broadcaster/internal/ports/errcode"

func translateBotError(code errcode.Code) string {
	switch code {
	case errcode.InvalidInterval:
		return "❌ Интервал должен быть числом от 1 до 60."
	case errcode.EmptyMessage:
		return "❌ Использование: /setmessage <текст>"
	case errcode.AlreadyExists:
		return "⚠️ Такой чат уже есть."
	case errcode.NotFound:
		return "⚠️ Чат не найден."
	case errcode.PersistFailed:
		return "❌ Не удалось сохранить настройки, изменение отменено."
	default:
		return "❌ Внутренняя ошибка, попробуйте позже"
	}
}
