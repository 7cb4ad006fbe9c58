package errcode

import (
	"errors"

	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
)

type Code string

const (
	InvalidInterval Code = "INVALID_INTERVAL"
	EmptyMessage    Code = "EMPTY_MESSAGE"

	AlreadyExists Code = "ALREADY_EXISTS"
	NotFound      Code = "NOT_FOUND"

	PersistFailed Code = "PERSIST_FAILED"
	Internal      Code = "INTERNAL_ERROR"
)

// FromError - код для ответа пользователю по ошибке сервиса
func FromError(err error) Code {
	switch {
	case errors.Is(err, errs.ErrInvalidInterval):
		return InvalidInterval
	case errors.Is(err, errs.ErrEmptyMessage):
		return EmptyMessage
	case errors.Is(err, errs.ErrAlreadyExists):
		return AlreadyExists
	case errors.Is(err, errs.ErrNotFound):
		return NotFound
	case errors.Is(err, errs.ErrPersist):
		return PersistFailed
	default:
		return Internal
	}
}
