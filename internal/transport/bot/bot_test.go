package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	errs "github.com/NastyaGoryachaya/chat-broadcaster/internal/errors"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/ports/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDestinationArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    domain.Destination
		wantErr bool
	}{
		{name: "chat only", args: []string{"-100123"}, want: domain.NewDestination(-100123, 0)},
		{name: "chat and topic", args: []string{"-100123", "15"}, want: domain.NewDestination(-100123, 15)},
		{name: "zero topic means none", args: []string{"5", "0"}, want: domain.NewDestination(5, 0)},
		{name: "no args", args: nil, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "bad topic", args: []string{"1", "x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDestinationArgs(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadArgs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMinutes(t *testing.T) {
	for m := 1; m <= 60; m++ {
		got, err := parseMinutes(fmt.Sprintf(" %d ", m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	for _, in := range []string{"", "0", "61", "-3", "five", "1.5"} {
		_, err := parseMinutes(in)
		assert.ErrorIs(t, err, errs.ErrInvalidInterval, in)
	}
}

func TestFormatDestinations(t *testing.T) {
	assert.Equal(t, "📭 Список чатов пуст.", formatDestinations(nil))

	out := formatDestinations([]domain.Destination{domain.NewDestination(1, 0), domain.NewDestination(2, 7)})
	assert.Equal(t, "📌 Чаты для рассылки:\n- 1\n- 2 (topic 7)\n", out)
}

func TestFormatChatID(t *testing.T) {
	assert.Contains(t, formatChatID(10, 0), "(без топика)")
	assert.Contains(t, formatChatID(10, 3), "Topic ID: `3`")
}

func TestFormatStatus(t *testing.T) {
	st := domain.DefaultState()
	st.Config.Enabled = true
	st.Chats = domain.Registry{domain.NewDestination(1, 0)}

	out := formatStatus(st, true)
	assert.Contains(t, out, "включена")
	assert.Contains(t, out, "Интервал: 5 мин.")
	assert.Contains(t, out, "Чатов: 1")
	assert.Contains(t, out, domain.DefaultMessage)
}

func TestTranslateBotError(t *testing.T) {
	assert.Contains(t, translateBotError(errcode.FromError(errs.ErrInvalidInterval)), "от 1 до 60")
	assert.Contains(t, translateBotError(errcode.FromError(fmt.Errorf("%w: io", errs.ErrPersist))), "отменено")
	assert.Contains(t, translateBotError(errcode.FromError(errors.New("boom"))), "Внутренняя ошибка")
}
