package repository

import (
	"context"

	"pos/internal/domain/model"
)

// 担当者の取得を約束
type OperatorRepository interface {
	// コードで1件取得。無ければ ErrNotFound
	FindByCode(ctx context.Context, code string) (*model.Operator, error)
	// IDで1件取得。無ければ ErrNotFound
	FindByID(ctx context.Context, id int64) (*model.Operator, error)
	// 新規作成
	Create(ctx context.Context, op *model.Operator) error
	// 最終ログインなどの更新
	Update(ctx context.Context, op *model.Operator) error
}
