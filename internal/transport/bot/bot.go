package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/config"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces"
	"gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

// Bot - командный интерфейс владельца (приём команд, авторизация, ответы)
type Bot struct {
	bot     *telebot.Bot
	svc     interfaces.Broadcaster
	logger  *slog.Logger
	timeout time.Duration
}

// NewTelebot - клиент Bot API, общий для команд и для рассылки
func NewTelebot(cfg config.TelegramConfig) (*telebot.Bot, error) {
	pollTimeout := cfg.LongPollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	return telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	})
}

// New регистрирует команды. Все команды доступны только владельцу,
// остальным бот молча не отвечает.
func New(b *telebot.Bot, cfg config.TelegramConfig, svc interfaces.Broadcaster, logger *slog.Logger) *Bot {
	timeout := cfg.CommandTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	bot := &Bot{
		bot:     b,
		svc:     svc,
		logger:  logger,
		timeout: timeout,
	}

	b.Use(middleware.Whitelist(cfg.OwnerID))

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle("/help", bot.handleHelp)
	b.Handle("/getid", bot.handleGetID)
	b.Handle("/addchat", bot.handleAddChat)
	b.Handle("/addhere", bot.handleAddHere)
	b.Handle("/delchat", bot.handleDelChat)
	b.Handle("/delhere", bot.handleDelHere)
	b.Handle("/listchats", bot.handleListChats)
	b.Handle("/setinterval", bot.handleSetInterval)
	b.Handle("/setmessage", bot.handleSetMessage)
	b.Handle("/startspam", bot.handleStartSpam)
	b.Handle("/stopspam", bot.handleStopSpam)
	b.Handle("/status", bot.handleStatus)
	return bot
}

// Start запускает long polling
func (b *Bot) Start(_ context.Context) {
	b.logger.Info("bot polling started")
	go b.bot.Start()
}

// Stop останавливает бота
func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}
