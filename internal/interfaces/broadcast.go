package interfaces

import (
	"context"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
)

//go:generate mockgen -destination=../service/broadcast/mocks/mock_loop_controller.go -package=mocks github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces LoopController

// LoopController - управление фоновым циклом рассылки (планировщик).
type LoopController interface {
	Start()
	Stop()
	Restart()
	Running() bool
}

// Broadcaster - команды, которые вызывает бот. Авторизация уже выполнена снаружи.
type Broadcaster interface {
	AddDestination(ctx context.Context, d domain.Destination) error
	RemoveDestination(ctx context.Context, chatID int64, topicID *int) error
	Destinations() []domain.Destination

	SetInterval(ctx context.Context, minutes int) error
	SetMessage(ctx context.Context, text string) error
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error

	Snapshot() domain.State
	Running() bool
}

// StatusReader - то, что нужно HTTP-статусу (только чтение).
type StatusReader interface {
	Snapshot() domain.State
	Running() bool
}
