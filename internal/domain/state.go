package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// State - всё, что сохраняется на диск одним куском
type State struct {
	Chats  Registry
	Config BroadcastConfig
}

// persistedState - формат файла: {chats, interval_min, message, running}
type persistedState struct {
	Chats []Destination `json:"chats"`
	BroadcastConfig
}

// DefaultState - состояние, если сохранённого ещё нет
func DefaultState() State {
	return State{Chats: Registry{}, Config: DefaultConfig()}
}

// Clone - глубокая копия
func (s State) Clone() State {
	return State{Chats: Registry(s.Chats.List()), Config: s.Config}
}

// Validate проверяет загруженное состояние: интервал, текст, уникальность чатов.
func (s State) Validate() error {
	if err := validate.Struct(s.Config); err != nil {
		return fmt.Errorf("invalid broadcast config: %w", err)
	}
	if strings.TrimSpace(s.Config.Message) == "" {
		return fmt.Errorf("invalid broadcast config: empty message")
	}
	for i := range s.Chats {
		for j := i + 1; j < len(s.Chats); j++ {
			if s.Chats[i].Equal(s.Chats[j]) {
				return fmt.Errorf("duplicate chat %d in state", s.Chats[i].ChatID)
			}
		}
	}
	return nil
}

// MarshalJSON пишет текст как есть, без экранирования <, > и &
func (s State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(persistedState{Chats: s.Chats.List(), BroadcastConfig: s.Config}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	p := persistedState{BroadcastConfig: DefaultConfig()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	chats := make(Registry, 0, len(p.Chats))
	for _, d := range p.Chats {
		// тема 0 в файле - то же самое, что её отсутствие
		if d.TopicID != nil && *d.TopicID == 0 {
			d.TopicID = nil
		}
		chats = append(chats, d)
	}
	s.Chats = chats
	s.Config = p.BroadcastConfig
	return nil
}
