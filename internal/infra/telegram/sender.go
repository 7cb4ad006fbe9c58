package telegram

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v4"
)

// messageSender - часть telebot.Bot, которая нужна для доставки
type messageSender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

type Config struct {
	// RatePerSecond - ограничение частоты отправки, 0 - без ограничения
	RatePerSecond float64
	Burst         int
}

// Sender - клиент доставки сообщений через Bot API.
type Sender struct {
	bot     messageSender
	limiter *rate.Limiter
}

func NewSender(bot messageSender, cfg Config) *Sender {
	s := &Sender{bot: bot}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return s
}

// Send отправляет текст в чат; topicID - тема форума (message_thread_id).
func (s *Sender) Send(ctx context.Context, chatID int64, text string, topicID *int) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &telebot.SendOptions{}
	if topicID != nil {
		opts.ThreadID = *topicID
	}
	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, text, opts); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}
