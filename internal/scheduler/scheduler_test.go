package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/metrics"
	schedmocks "github.com/NastyaGoryachaya/chat-broadcaster/internal/scheduler/mocks"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeState - потокобезопасный источник снимков для цикла
type fakeState struct {
	mu sync.Mutex
	st domain.State
}

func (f *fakeState) Snapshot() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.Clone()
}

func (f *fakeState) set(st domain.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st = st
}

func enabledState(message string, interval int, chats ...domain.Destination) *fakeState {
	return &fakeState{st: domain.State{
		Chats:  domain.Registry(chats),
		Config: domain.BroadcastConfig{IntervalMinutes: interval, Message: message, Enabled: true},
	}}
}

func waitCalls(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for send #%d", i+1)
		}
	}
}

// Один чат, interval=1: за цикл ровно один Send(100, "hi", nil), и цикл продолжается до Stop
func TestScheduler_SendsAndRepeatsUntilStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 100)
	sender.EXPECT().
		Send(gomock.Any(), int64(100), "hi", gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		MinTimes(3)

	s := NewScheduler(enabledState("hi", 1, domain.NewDestination(100, 0)), sender, slog.Default(),
		WithIntervalUnit(10*time.Millisecond))

	s.Start()
	waitCalls(t, calls, 3)
	if !s.Running() {
		t.Fatal("loop must keep running between cycles")
	}
	s.Stop()

	if s.Running() {
		t.Fatal("expected idle after Stop")
	}
	if got := s.active.Load(); got != 0 {
		t.Fatalf("expected no active loops, got %d", got)
	}
}

// Двойной Start - один цикл: при длинном интервале будет ровно один проход
func TestScheduler_StartIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 10)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), "hello", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		Times(2)

	st := enabledState("hello", 60, domain.NewDestination(1, 0), domain.NewDestination(2, 3))
	s := NewScheduler(st, sender, slog.Default(), WithIntervalUnit(time.Hour))

	s.Start()
	s.Start()
	waitCalls(t, calls, 2)
	time.Sleep(50 * time.Millisecond)

	if got := s.active.Load(); got != 1 {
		t.Fatalf("expected exactly one active loop, got %d", got)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop must interrupt the sleep")
	}
	if got := s.active.Load(); got != 0 {
		t.Fatalf("expected no active loops, got %d", got)
	}
}

func TestScheduler_StopWhenIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewScheduler(&fakeState{st: domain.DefaultState()}, schedmocks.NewMockSender(ctrl), slog.Default())

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on idle scheduler must not block")
	}
	if s.Running() {
		t.Fatal("expected idle")
	}
}

// Ошибка доставки в один чат не мешает отправить во второй
func TestScheduler_DeliveryFailureDoesNotAbortCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 10)
	sender.EXPECT().
		Send(gomock.Any(), int64(1), "msg", gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return errors.New("chat not found")
		}).
		Times(1)
	sender.EXPECT().
		Send(gomock.Any(), int64(2), "msg", gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		Times(1)

	st := enabledState("msg", 60, domain.NewDestination(1, 0), domain.NewDestination(2, 0))
	s := NewScheduler(st, sender, slog.Default(), WithIntervalUnit(time.Hour), WithMetrics(m))

	s.Start()
	waitCalls(t, calls, 2)
	if !s.Running() {
		t.Fatal("failed delivery must not stop the loop")
	}
	s.Stop()

	if got := testutil.ToFloat64(m.Deliveries("error")); got != 1 {
		t.Fatalf("expected 1 failed delivery, got %v", got)
	}
	if got := testutil.ToFloat64(m.Deliveries("ok")); got != 1 {
		t.Fatalf("expected 1 ok delivery, got %v", got)
	}
}

// Паника в клиенте доставки считается обычной ошибкой
func TestScheduler_SenderPanicIsContained(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 10)
	sender.EXPECT().
		Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			panic("boom")
		}).
		Times(1)
	sender.EXPECT().
		Send(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		Times(1)

	st := enabledState("x", 60, domain.NewDestination(1, 0), domain.NewDestination(2, 0))
	s := NewScheduler(st, sender, slog.Default(), WithIntervalUnit(time.Hour))
	s.Start()
	waitCalls(t, calls, 2)
	s.Stop()
}

// Тема передаётся клиенту как подсказка
func TestScheduler_PassesTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 10)
	sender.EXPECT().
		Send(gomock.Any(), int64(-100500), "t", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, topic *int) error {
			if topic == nil || *topic != 42 {
				t.Errorf("expected topic 42, got %v", topic)
			}
			calls <- struct{}{}
			return nil
		}).
		Times(1)

	s := NewScheduler(enabledState("t", 60, domain.NewDestination(-100500, 42)), sender, slog.Default(),
		WithIntervalUnit(time.Hour))
	s.Start()
	waitCalls(t, calls, 1)
	s.Stop()
}

// enabled=false - цикл завершается сам, планировщик снова Idle
func TestScheduler_ExitsWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	st := &fakeState{st: domain.State{Chats: domain.Registry{domain.NewDestination(1, 0)}, Config: domain.DefaultConfig()}}
	s := NewScheduler(st, sender, slog.Default())
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for s.Running() {
		if time.Now().After(deadline) {
			t.Fatal("loop did not exit for disabled broadcast")
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
}

// Restart сразу начинает новый проход, не дожидаясь старого интервала
func TestScheduler_RestartStartsFreshCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := schedmocks.NewMockSender(ctrl)
	calls := make(chan struct{}, 10)
	sender.EXPECT().
		Send(gomock.Any(), int64(7), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		Times(2)

	st := enabledState("a", 60, domain.NewDestination(7, 0))
	s := NewScheduler(st, sender, slog.Default(), WithIntervalUnit(time.Hour))

	s.Start()
	waitCalls(t, calls, 1)
	s.Restart()
	waitCalls(t, calls, 1)

	if got := s.active.Load(); got != 1 {
		t.Fatalf("expected exactly one active loop after restart, got %d", got)
	}
	s.Stop()
}

// Stop ждёт окончания текущей доставки и только потом возвращает управление
func TestScheduler_StopWaitsForInFlightDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entered := make(chan struct{})
	release := make(chan struct{})
	sender := schedmocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, _ string, _ *int) error {
			close(entered)
			<-release
			return ctx.Err()
		}).
		Times(1)

	s := NewScheduler(enabledState("a", 60, domain.NewDestination(1, 0)), sender, slog.Default(),
		WithIntervalUnit(time.Hour), WithSendTimeout(0))
	s.Start()
	<-entered

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a delivery was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after delivery finished")
	}
}

// Пока Stop ждёт доставку, Running отвечает сразу и считает цикл живым
func TestScheduler_RunningDoesNotWaitForStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	entered := make(chan struct{})
	release := make(chan struct{})
	sender := schedmocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			close(entered)
			<-release
			return nil
		}).
		Times(1)

	s := NewScheduler(enabledState("a", 60, domain.NewDestination(1, 0)), sender, slog.Default(),
		WithIntervalUnit(time.Hour), WithSendTimeout(0))
	s.Start()
	<-entered

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	time.Sleep(20 * time.Millisecond)

	answered := make(chan bool, 1)
	go func() { answered <- s.Running() }()
	select {
	case running := <-answered:
		if !running {
			t.Fatal("loop is still delivering, expected Running() == true")
		}
	case <-time.After(500 * time.Millisecond):
		close(release)
		t.Fatal("Running() blocked while Stop waited for the delivery")
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after delivery finished")
	}
	if s.Running() {
		t.Fatal("expected idle after Stop")
	}
}

// Изменения списка во время прохода не влияют на текущий проход
func TestScheduler_CycleUsesSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := enabledState("s", 60, domain.NewDestination(1, 0), domain.NewDestination(2, 0))
	calls := make(chan struct{}, 10)

	sender := schedmocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			// второй чат удалили посреди прохода
			st.set(domain.State{
				Chats:  domain.Registry{domain.NewDestination(1, 0)},
				Config: domain.BroadcastConfig{IntervalMinutes: 60, Message: "s", Enabled: true},
			})
			calls <- struct{}{}
			return nil
		}).
		Times(1)
	sender.EXPECT().
		Send(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, _ *int) error {
			calls <- struct{}{}
			return nil
		}).
		Times(1)

	s := NewScheduler(st, sender, slog.Default(), WithIntervalUnit(time.Hour))
	s.Start()
	waitCalls(t, calls, 2)
	s.Stop()
}
