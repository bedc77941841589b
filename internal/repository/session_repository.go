package repository

import (
	"context"

	"pos/internal/domain/model"
)

// 端末ごとのPOS状態の保存・取得を約束。
type SessionRepository interface {
	//無ければ ErrNotFound
	Load(ctx context.Context, terminalID string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, terminalID string) error
}
