package interfaces

import "context"

//go:generate mockgen -destination=../scheduler/mocks/mock_sender.go -package=mocks github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces Sender

// Sender - клиент доставки сообщений. topicID == nil - без темы.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, topicID *int) error
}
