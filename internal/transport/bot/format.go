package bot

import (
	"fmt"
	"strings"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
)

// formatDestinations - список чатов для /listchats
func formatDestinations(list []domain.Destination) string {
	if len(list) == 0 {
		return "📭 Список чатов пуст."
	}
	var b strings.Builder
	b.WriteString("📌 Чаты для рассылки:\n")
	for _, d := range list {
		fmt.Fprintf(&b, "- %d", d.ChatID)
		if d.TopicID != nil {
			fmt.Fprintf(&b, " (topic %d)", *d.TopicID)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatChatID(chatID int64, threadID int) string {
	if threadID != 0 {
		return fmt.Sprintf("📌 Chat ID: `%d`\n🧵 Topic ID: `%d`", chatID, threadID)
	}
	return fmt.Sprintf("📌 Chat ID: `%d`\n(без топика)", chatID)
}

func formatStatus(st domain.State, running bool) string {
	state := "⛔ выключена"
	if st.Config.Enabled {
		state = "🚀 включена"
	}
	loop := "нет"
	if running {
		loop = "да"
	}
	return fmt.Sprintf("Рассылка: %s\nЦикл активен: %s\nИнтервал: %d мин.\nЧатов: %d\nСообщение:\n%s",
		state, loop, st.Config.IntervalMinutes, len(st.Chats), st.Config.Message)
}
