package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
)

// StateRepo хранит снимок состояния в одном JSON-файле.
// Файл переписывается целиком через временный файл и rename.
type StateRepo struct {
	path string
	mu   sync.Mutex
}

func NewStateRepository(path string) (*StateRepo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("state file path is empty")
	}
	return &StateRepo{path: path}, nil
}

func (r *StateRepo) Path() string { return r.path }

// Load читает файл; если файла нет - состояние по умолчанию.
func (r *StateRepo) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("read state file: %w", err)
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.State{}, fmt.Errorf("decode state file %s: %w", r.path, err)
	}
	if err := st.Validate(); err != nil {
		return domain.State{}, err
	}
	return st, nil
}

// Save атомарно перезаписывает файл.
func (r *StateRepo) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
