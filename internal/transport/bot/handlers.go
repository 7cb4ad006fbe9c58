package bot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/ports/errcode"
	"gopkg.in/telebot.v4"
)

const helpText = "📌 Команды:\n" +
	"/addchat <chat_id> [topic_id] - добавить чат/тему\n" +
	"/addhere - добавить текущий чат (и тему если есть)\n" +
	"/delchat <chat_id> [topic_id] - удалить чат/тему\n" +
	"/delhere - удалить текущий чат (и тему если есть)\n" +
	"/listchats - список чатов\n" +
	"/setinterval <мин> - интервал (1-60)\n" +
	"/setmessage <текст> - сообщение для рассылки\n" +
	"/startspam - начать рассылку\n" +
	"/stopspam - остановить рассылку\n" +
	"/status - текущие настройки\n" +
	"/getid - показать ID чата и темы"

func (b *Bot) handleStart(c telebot.Context) error {
	return c.Reply("✅ Бот запущен. Используй /help для списка команд.")
}

func (b *Bot) handleHelp(c telebot.Context) error {
	return c.Reply(helpText)
}

// handleGetID - показывает ID текущего чата и темы
func (b *Bot) handleGetID(c telebot.Context) error {
	return c.Reply(formatChatID(c.Chat().ID, c.Message().ThreadID), telebot.ModeMarkdown)
}

func (b *Bot) handleAddChat(c telebot.Context) error {
	d, err := parseDestinationArgs(c.Args())
	if err != nil {
		return c.Reply("❌ Использование: /addchat <chat_id> [topic_id]")
	}
	return b.addDestination(c, d, "✅ Чат добавлен.", "⚠️ Такой чат уже есть.")
}

func (b *Bot) handleAddHere(c telebot.Context) error {
	d := domain.NewDestination(c.Chat().ID, c.Message().ThreadID)
	return b.addDestination(c, d, "✅ Текущий чат добавлен.", "⚠️ Этот чат уже есть.")
}

func (b *Bot) addDestination(c telebot.Context, d domain.Destination, okText, dupText string) error {
	ctx, cancel := b.commandContext()
	defer cancel()

	err := b.svc.AddDestination(ctx, d)
	switch {
	case err == nil:
		return c.Reply(okText)
	case errors.Is(err, errs.ErrAlreadyExists):
		return c.Reply(dupText)
	default:
		b.logCommandError(c, "add_destination", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
}

func (b *Bot) handleDelChat(c telebot.Context) error {
	d, err := parseDestinationArgs(c.Args())
	if err != nil {
		return c.Reply("❌ Использование: /delchat <chat_id> [topic_id]")
	}
	return b.removeDestination(c, d, "✅ Чат удалён.", "⚠️ Чат не найден.")
}

func (b *Bot) handleDelHere(c telebot.Context) error {
	d := domain.NewDestination(c.Chat().ID, c.Message().ThreadID)
	return b.removeDestination(c, d, "✅ Текущий чат удалён.", "⚠️ Этот чат не найден.")
}

func (b *Bot) removeDestination(c telebot.Context, d domain.Destination, okText, notFoundText string) error {
	ctx, cancel := b.commandContext()
	defer cancel()

	err := b.svc.RemoveDestination(ctx, d.ChatID, d.TopicID)
	switch {
	case err == nil:
		return c.Reply(okText)
	case errors.Is(err, errs.ErrNotFound):
		return c.Reply(notFoundText)
	default:
		b.logCommandError(c, "remove_destination", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
}

func (b *Bot) handleListChats(c telebot.Context) error {
	return c.Reply(formatDestinations(b.svc.Destinations()))
}

func (b *Bot) handleSetInterval(c telebot.Context) error {
	mins, err := parseMinutes(c.Message().Payload)
	if err != nil {
		return c.Reply(translateBotError(errcode.InvalidInterval))
	}

	ctx, cancel := b.commandContext()
	defer cancel()

	if err := b.svc.SetInterval(ctx, mins); err != nil {
		b.logCommandError(c, "set_interval", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
	return c.Reply(fmt.Sprintf("✅ Интервал установлен: %d мин.", mins))
}

func (b *Bot) handleSetMessage(c telebot.Context) error {
	// Payload обрезается на первом переводе строки
	text := commandText(c.Text())
	if text == "" {
		return c.Reply("❌ Использование: /setmessage <текст>")
	}

	ctx, cancel := b.commandContext()
	defer cancel()

	if err := b.svc.SetMessage(ctx, text); err != nil {
		b.logCommandError(c, "set_message", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
	return c.Reply("✅ Сообщение обновлено.")
}

func (b *Bot) handleStartSpam(c telebot.Context) error {
	ctx, cancel := b.commandContext()
	defer cancel()

	if err := b.svc.Enable(ctx); err != nil {
		b.logCommandError(c, "enable", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
	return c.Reply("🚀 Рассылка запущена.")
}

func (b *Bot) handleStopSpam(c telebot.Context) error {
	ctx, cancel := b.commandContext()
	defer cancel()

	if err := b.svc.Disable(ctx); err != nil {
		b.logCommandError(c, "disable", err)
		return c.Reply(translateBotError(errcode.FromError(err)))
	}
	return c.Reply("⛔ Рассылка остановлена.")
}

func (b *Bot) handleStatus(c telebot.Context) error {
	return c.Reply(formatStatus(b.svc.Snapshot(), b.svc.Running()))
}

func (b *Bot) logCommandError(c telebot.Context, op string, err error) {
	b.logger.Error("bot: command failed",
		slog.String("op", op),
		slog.Int64("chat_id", c.Chat().ID),
		slog.String("error", err.Error()),
	)
}
