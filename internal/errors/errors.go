package errors

import "errors"

var (
	// ErrInvalidInterval - интервал вне диапазона 1..60 минут
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrEmptyMessage - пустой текст рассылки
	ErrEmptyMessage = errors.New("empty message")

	ErrAlreadyExists = errors.New("destination already exists")
	ErrNotFound      = errors.New("destination not found")

	// ErrPersist - состояние не удалось сохранить, изменение откатывается
	ErrPersist = errors.New("persist state")
)
