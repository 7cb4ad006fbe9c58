package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Снимок хранится одной строкой (id = 1) в виде jsonb - того же формата, что и файл.
const stateRowID = 1

type StateRepo struct {
	db *pgxpool.Pool
}

func NewStateRepository(db *pgxpool.Pool) *StateRepo {
	return &StateRepo{db: db}
}

// EnsureSchema создаёт таблицу, если её ещё нет.
func (r *StateRepo) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS broadcast_state (
		id         SMALLINT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create broadcast_state: %w", err)
	}
	return nil
}

// Load возвращает сохранённый снимок или состояние по умолчанию, если строки нет.
func (r *StateRepo) Load(ctx context.Context) (domain.State, error) {
	query := `SELECT data FROM broadcast_state WHERE id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, stateRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("select broadcast_state: %w", err)
	}

	var st domain.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return domain.State{}, fmt.Errorf("decode broadcast_state: %w", err)
	}
	if err := st.Validate(); err != nil {
		return domain.State{}, err
	}
	return st, nil
}

// Save - upsert снимка целиком одной командой.
func (r *StateRepo) Save(ctx context.Context, state domain.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	query := `
	INSERT INTO broadcast_state (id, data, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (id)
	DO UPDATE SET data = EXCLUDED.data,
	              updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, query, stateRowID, raw); err != nil {
		return fmt.Errorf("upsert broadcast_state: %w", err)
	}
	return nil
}
