package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

// 端末のPOS状態を取得
func (r *SessionGormRepository) Load(ctx context.Context, terminalID string) (*model.Session, error) {
	var row model.PosSession

	err := r.db.WithContext(ctx).
		Where("terminal_id = ?", terminalID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var s model.Session
	if err := json.Unmarshal([]byte(row.Snapshot), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// 状態を丸ごと保存（無ければ作成）
func (r *SessionGormRepository) Save(ctx context.Context, s *model.Session) error {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return err
	}

	now := time.Now()
	row := model.PosSession{
		TerminalID: s.TerminalID,
		OperatorID: s.OperatorID,
		Revision:   s.Revision,
		Snapshot:   string(snapshot),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	//terminal_idが同じなら上書き
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "terminal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"operator_id", "revision", "snapshot", "updated_at"}),
		}).
		Create(&row).Error
}

// 端末の状態を削除
func (r *SessionGormRepository) Delete(ctx context.Context, terminalID string) error {
	res := r.db.WithContext(ctx).
		Where("terminal_id = ?", terminalID).
		Delete(&model.PosSession{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
