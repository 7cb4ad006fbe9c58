package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/metrics"
	"github.com/google/uuid"
)

const defaultSendTimeout = 15 * time.Second

// Scheduler - жизненный цикл фонового цикла рассылки.
// Состояния: Idle (цикла нет) и Running (ровно один цикл).
type Scheduler struct {
	state   interfaces.StateReader
	sender  interfaces.Sender
	logger  *slog.Logger
	metrics *metrics.Metrics

	intervalUnit time.Duration
	sendTimeout  time.Duration

	mu     sync.Mutex // сериализует Start/Stop/Restart
	cancel context.CancelFunc
	// done текущего цикла; Running читает его без mu и не ждёт Stop
	live atomic.Pointer[chan struct{}]

	active atomic.Int32 // живые циклы, больше одного не бывает
}

type Option func(*Scheduler)

// WithIntervalUnit - длительность одной "минуты" интервала (в тестах - миллисекунды)
func WithIntervalUnit(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.intervalUnit = d
		}
	}
}

// WithSendTimeout - таймаут одной доставки, 0 - без таймаута
func WithSendTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.sendTimeout = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler - конструктор планировщика рассылки
func NewScheduler(state interfaces.StateReader, sender interfaces.Sender, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		state:        state,
		sender:       sender,
		logger:       logger,
		intervalUnit: time.Minute,
		sendTimeout:  defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("scheduler configured",
		slog.Duration("interval_unit", s.intervalUnit),
		slog.Duration("send_timeout", s.sendTimeout))
	return s
}

// Start запускает цикл, если он ещё не запущен.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// Stop отменяет цикл и ждёт его завершения. На остановленном планировщике ничего не делает.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Restart - Stop и Start под одной блокировкой, новый интервал действует сразу.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.startLocked()
}

// Running - true, пока горутина цикла жива. Не блокируется, даже если Stop
// в это время ждёт конца прохода.
func (s *Scheduler) Running() bool {
	done := s.live.Load()
	if done == nil {
		return false
	}
	select {
	case <-*done:
		// цикл вышел сам (рассылка выключена)
		return false
	default:
		return true
	}
}

func (s *Scheduler) startLocked() {
	if s.Running() {
		s.logger.Debug("scheduler: start ignored, loop already running")
		return
	}
	if s.live.Load() != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.live.Store(&done)
	go s.run(ctx, done)
	s.logger.Info("scheduler started")
}

func (s *Scheduler) stopLocked() {
	done := s.live.Load()
	if done == nil {
		return
	}
	s.cancel()
	<-*done
	s.cancel = nil
	s.live.Store(nil)
	s.logger.Info("scheduler stopped")
}

// run - основной цикл: отправить всем, потом спать interval_min.
func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	s.active.Add(1)
	s.metrics.LoopRunning(true)
	defer func() {
		s.active.Add(-1)
		s.metrics.LoopRunning(false)
		close(done)
	}()

	for {
		if ctx.Err() != nil {
			s.logger.Debug("loop: cancelled before cycle")
			return
		}

		st := s.state.Snapshot()
		if !st.Config.Enabled {
			s.logger.Info("loop: broadcasting disabled, exiting")
			return
		}

		s.runCycle(ctx, st)

		wait := time.Duration(st.Config.IntervalMinutes) * s.intervalUnit
		s.logger.Debug("loop: sleeping", slog.Duration("wait", wait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Debug("loop: cancelled during sleep")
			return
		case <-timer.C:
		}
	}
}

// runCycle - один проход по снимку получателей. Ошибка одной доставки не прерывает проход.
func (s *Scheduler) runCycle(ctx context.Context, st domain.State) {
	log := s.logger.With(slog.String("cycle_id", uuid.NewString()))
	started := time.Now()
	log.Debug("cycle: started", slog.Int("destinations", len(st.Chats)))

	// доставка не прерывается остановкой, Stop дождётся конца прохода
	sendCtx := context.WithoutCancel(ctx)

	sent, failed := 0, 0
	for _, d := range st.Chats {
		if err := s.deliver(sendCtx, d, st.Config.Message); err != nil {
			failed++
			s.metrics.DeliveryFailed()
			log.Error("cycle: send failed", append(destinationAttrs(d), slog.String("err", err.Error()))...)
			continue
		}
		sent++
		s.metrics.DeliveryOK()
		log.Debug("cycle: send ok", destinationAttrs(d)...)
	}

	s.metrics.CycleDone(len(st.Chats))
	log.Info("cycle: completed",
		slog.Int("total", len(st.Chats)),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(started)))
}

func (s *Scheduler) deliver(ctx context.Context, d domain.Destination, text string) (err error) {
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return s.sender.Send(ctx, d.ChatID, text, d.TopicID)
}

func destinationAttrs(d domain.Destination) []any {
	attrs := []any{slog.Int64("chat_id", d.ChatID)}
	if d.TopicID != nil {
		attrs = append(attrs, slog.Int("topic_id", *d.TopicID))
	}
	return attrs
}
