package domain

import (
	"strings"

	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
)

// Значения по умолчанию для первого запуска
const (
	DefaultIntervalMinutes = 5
	DefaultMessage         = "Привет!"

	MinIntervalMinutes = 1
	MaxIntervalMinutes = 60
)

// Destination - чат (и опционально тема форума), куда уходит рассылка
type Destination struct {
	ChatID  int64 `json:"chat_id"`
	TopicID *int  `json:"topic_id,omitempty"` // nil - без темы
}

// NewDestination - каноничное представление: тема 0 считается отсутствующей.
func NewDestination(chatID int64, topicID int) Destination {
	d := Destination{ChatID: chatID}
	if topicID != 0 {
		t := topicID
		d.TopicID = &t
	}
	return d
}

// Matches сравнивает оба поля; nil-тема равна только nil-теме.
func (d Destination) Matches(chatID int64, topicID *int) bool {
	if d.ChatID != chatID {
		return false
	}
	if d.TopicID == nil || topicID == nil {
		return d.TopicID == nil && topicID == nil
	}
	return *d.TopicID == *topicID
}

func (d Destination) Equal(o Destination) bool {
	return d.Matches(o.ChatID, o.TopicID)
}

func (d Destination) clone() Destination {
	if d.TopicID == nil {
		return d
	}
	t := *d.TopicID
	return Destination{ChatID: d.ChatID, TopicID: &t}
}

// Registry - упорядоченный список уникальных получателей.
// Изменения создают новый срез, поэтому ранее выданные снимки не меняются.
type Registry []Destination

// Add добавляет получателя в конец, если такого ещё нет.
func (r Registry) Add(d Destination) (Registry, error) {
	for _, cur := range r {
		if cur.Equal(d) {
			return r, errs.ErrAlreadyExists
		}
	}
	out := make(Registry, 0, len(r)+1)
	out = append(out, r...)
	return append(out, d.clone()), nil
}

// Remove удаляет получателя с точным совпадением chat_id и topic_id.
func (r Registry) Remove(chatID int64, topicID *int) (Registry, error) {
	for i, cur := range r {
		if !cur.Matches(chatID, topicID) {
			continue
		}
		out := make(Registry, 0, len(r)-1)
		out = append(out, r[:i]...)
		return append(out, r[i+1:]...), nil
	}
	return r, errs.ErrNotFound
}

// List - копия списка, вызывающий может делать с ней что угодно
func (r Registry) List() []Destination {
	out := make([]Destination, 0, len(r))
	for _, d := range r {
		out = append(out, d.clone())
	}
	return out
}

// BroadcastConfig - параметры рассылки
type BroadcastConfig struct {
	IntervalMinutes int    `json:"interval_min" validate:"min=1,max=60"`
	Message         string `json:"message" validate:"required"`
	Enabled         bool   `json:"running"`
}

// DefaultConfig - настройки первого запуска
func DefaultConfig() BroadcastConfig {
	return BroadcastConfig{
		IntervalMinutes: DefaultIntervalMinutes,
		Message:         DefaultMessage,
		Enabled:         false,
	}
}

func (c *BroadcastConfig) SetInterval(minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return errs.ErrInvalidInterval
	}
	c.IntervalMinutes = minutes
	return nil
}

func (c *BroadcastConfig) SetMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errs.ErrEmptyMessage
	}
	c.Message = text
	return nil
}

// SetEnabled только меняет флаг, запуском цикла управляет планировщик.
func (c *BroadcastConfig) SetEnabled(enabled bool) {
	c.Enabled = enabled
}
