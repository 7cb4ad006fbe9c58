package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces"
)

// Service - команды управления рассылкой.
// Каждая изменяющая команда сначала сохраняет новый снимок и только потом
// применяет его в памяти и трогает планировщик.
type Service struct {
	state *Holder
	store interfaces.StateStore
	loop  interfaces.LoopController
	log   *slog.Logger

	cmdMu sync.Mutex // команды выполняются строго по одной
}

var _ interfaces.Broadcaster = (*Service)(nil)

func NewService(state *Holder, store interfaces.StateStore, loop interfaces.LoopController, log *slog.Logger) *Service {
	return &Service{
		state: state,
		store: store,
		loop:  loop,
		log:   log,
	}
}

// AddDestination добавляет чат. Дубликат - ErrAlreadyExists без записи на диск.
func (s *Service) AddDestination(ctx context.Context, d domain.Destination) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	err := s.commit(ctx, "add_destination", func(st *domain.State) error {
		chats, err := st.Chats.Add(d)
		if err != nil {
			return err
		}
		st.Chats = chats
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("broadcast.destination_added", destinationAttrs(d)...)
	return nil
}

// RemoveDestination удаляет чат с точным совпадением темы.
func (s *Service) RemoveDestination(ctx context.Context, chatID int64, topicID *int) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	err := s.commit(ctx, "remove_destination", func(st *domain.State) error {
		chats, err := st.Chats.Remove(chatID, topicID)
		if err != nil {
			return err
		}
		st.Chats = chats
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("broadcast.destination_removed", destinationAttrs(domain.Destination{ChatID: chatID, TopicID: topicID})...)
	return nil
}

func (s *Service) Destinations() []domain.Destination {
	return s.state.Snapshot().Chats.List()
}

// SetInterval меняет интервал; если рассылка включена - цикл перезапускается.
func (s *Service) SetInterval(ctx context.Context, minutes int) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	var enabled bool
	err := s.commit(ctx, "set_interval", func(st *domain.State) error {
		enabled = st.Config.Enabled
		return st.Config.SetInterval(minutes)
	})
	if err != nil {
		return err
	}
	s.log.Info("broadcast.interval_set", slog.Int("interval_min", minutes), slog.Bool("enabled", enabled))
	if enabled {
		s.loop.Restart()
	}
	return nil
}

// SetMessage - новый текст подхватит следующий проход, перезапуск не нужен.
func (s *Service) SetMessage(ctx context.Context, text string) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	err := s.commit(ctx, "set_message", func(st *domain.State) error {
		return st.Config.SetMessage(text)
	})
	if err != nil {
		return err
	}
	s.log.Info("broadcast.message_set")
	return nil
}

func (s *Service) Enable(ctx context.Context) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	err := s.commit(ctx, "enable", func(st *domain.State) error {
		st.Config.SetEnabled(true)
		return nil
	})
	if err != nil {
		return err
	}
	s.loop.Start()
	s.log.Info("broadcast.enabled")
	return nil
}

// Disable сохраняет флаг и синхронно останавливает цикл.
func (s *Service) Disable(ctx context.Context) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	err := s.commit(ctx, "disable", func(st *domain.State) error {
		st.Config.SetEnabled(false)
		return nil
	})
	if err != nil {
		return err
	}
	s.loop.Stop()
	s.log.Info("broadcast.disabled")
	return nil
}

// Resume поднимает цикл после рестарта процесса, если рассылка была включена.
func (s *Service) Resume() bool {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	if !s.state.Snapshot().Config.Enabled {
		return false
	}
	s.loop.Start()
	s.log.Info("broadcast.resumed")
	return true
}

// Shutdown останавливает цикл, флаг на диске не меняется.
func (s *Service) Shutdown() {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	s.loop.Stop()
}

func (s *Service) Snapshot() domain.State {
	return s.state.Snapshot()
}

func (s *Service) Running() bool {
	return s.loop.Running()
}

// commit применяет fn к копии состояния, сохраняет её и только после успешной
// записи подменяет состояние в памяти. Вызывается под cmdMu.
func (s *Service) commit(ctx context.Context, op string, fn func(st *domain.State) error) error {
	next := s.state.Snapshot()
	if err := fn(&next); err != nil {
		s.log.Debug("broadcast.rejected", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error("broadcast.persist failed", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%w: %s: %w", errs.ErrPersist, op, err)
	}
	s.state.replace(next)
	return nil
}

func destinationAttrs(d domain.Destination) []any {
	attrs := []any{slog.Int64("chat_id", d.ChatID)}
	if d.TopicID != nil {
		attrs = append(attrs, slog.Int("topic_id", *d.TopicID))
	}
	return attrs
}
