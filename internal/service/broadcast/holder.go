package broadcast

import (
	"sync"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
)

// Holder - состояние рассылки в памяти на всё время жизни процесса.
// Пишет только сервис, цикл рассылки читает снимки.
type Holder struct {
	mu    sync.RWMutex
	state domain.State
}

func NewHolder(initial domain.State) *Holder {
	return &Holder{state: initial.Clone()}
}

// Snapshot - глубокая копия текущего состояния
func (h *Holder) Snapshot() domain.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Clone()
}

func (h *Holder) replace(st domain.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = st
}
