package interfaces

import (
	"context"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
)

//go:generate mockgen -destination=../service/broadcast/mocks/mock_state_store.go -package=mocks github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces StateStore

// StateStore - хранилище снимка состояния (файл или postgres).
type StateStore interface {
	// Load - последний сохранённый снимок; если его нет, то состояние по умолчанию
	Load(ctx context.Context) (domain.State, error)

	// Save - атомарная перезапись снимка целиком
	Save(ctx context.Context, state domain.State) error
}

// StateReader - чтение согласованного снимка для цикла рассылки.
type StateReader interface {
	Snapshot() domain.State
}
