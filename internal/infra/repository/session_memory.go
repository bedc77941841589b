package repository

import (
	"context"
	"encoding/json"
	"sync"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

// メモリ上の実装（SESSION_STORE=memory、ローカル確認用）。
// 保存時にJSONでコピーするので、呼び出し側の変更は Save するまで反映されない。
type SessionMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string][]byte
}

func NewSessionMemoryRepository() *SessionMemoryRepository {
	return &SessionMemoryRepository{rows: map[string][]byte{}}
}

func (r *SessionMemoryRepository) Load(ctx context.Context, terminalID string) (*model.Session, error) {
	r.mu.RLock()
	raw, ok := r.rows[terminalID]
	r.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}

	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionMemoryRepository) Save(ctx context.Context, s *model.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.rows[s.TerminalID] = raw
	r.mu.Unlock()
	return nil
}

func (r *SessionMemoryRepository) Delete(ctx context.Context, terminalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[terminalID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.rows, terminalID)
	return nil
}
