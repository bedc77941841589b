package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	domainrepo "pos/internal/repository"

	"gorm.io/gorm"
)

type operatorGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewOperatorGormRepository(db *gorm.DB) domainrepo.OperatorRepository {
	return &operatorGormRepository{db: db}
}

// 担当者を新規作成
func (r *operatorGormRepository) Create(ctx context.Context, op *model.Operator) error {
	if err := r.db.WithContext(ctx).Create(op).Error; err != nil {
		return err
	}
	return nil
}

// コードで担当者を1件取得
func (r *operatorGormRepository) FindByCode(ctx context.Context, code string) (*model.Operator, error) {
	var op model.Operator

	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&op).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrNotFound
		}
		return nil, err
	}

	return &op, nil
}

// IDで担当者を1件取得
func (r *operatorGormRepository) FindByID(ctx context.Context, id int64) (*model.Operator, error) {
	var op model.Operator

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&op).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrNotFound
		}
		return nil, err
	}

	return &op, nil
}

// 担当者を更新
func (r *operatorGormRepository) Update(ctx context.Context, op *model.Operator) error {
	return r.db.WithContext(ctx).Save(op).Error
}
