package bot

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
)

var ErrBadArgs = errors.New("bad command arguments")

// parseDestinationArgs - "<chat_id> [topic_id]"; лишние аргументы игнорируются
func parseDestinationArgs(args []string) (domain.Destination, error) {
	if len(args) < 1 {
		return domain.Destination{}, ErrBadArgs
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return domain.Destination{}, ErrBadArgs
	}
	topicID := 0
	if len(args) > 1 {
		topicID, err = strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return domain.Destination{}, ErrBadArgs
		}
	}
	return domain.NewDestination(chatID, topicID), nil
}

// parseMinutes - парсит строку с минутами и валидирует диапазон 1..60
func parseMinutes(s string) (int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || m < domain.MinIntervalMinutes || m > domain.MaxIntervalMinutes {
		return 0, errs.ErrInvalidInterval
	}
	return m, nil
}

// commandText - текст после команды (с @botname или без) целиком, со всеми строками
func commandText(text string) string {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}
