package auth

import (
	"context"
	"errors"
	"strings"

	"pos/internal/domain/model"
	"pos/internal/repository"
	"pos/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// 担当者登録の入力
type CreateOperatorInput struct {
	Code string
	Name string
	PIN  string
	Role model.Role
}

var (
	// PINは4〜8桁の数字
	ErrInvalidPIN = errors.New("invalid pin")

	// 競合
	ErrOperatorAlreadyExists = errors.New("operator already exists")
)

// 平文PINからハッシュへ。
type PINHasher interface {
	Hash(plain string) (string, error)
}

// 担当者の保存
type OperatorCreator interface {
	FindByCode(ctx context.Context, code string) (*model.Operator, error)
	Create(ctx context.Context, op *model.Operator) error
}

// CreateOperatorUsecaseは担当者（レジ係・責任者）の登録。
type CreateOperatorUsecase struct {
	operators OperatorCreator
	hasher    PINHasher
	clock     Clock
}

// DI
func NewCreateOperatorUsecase(operators OperatorCreator, hasher PINHasher, clock Clock) *CreateOperatorUsecase {
	return &CreateOperatorUsecase{
		operators: operators,
		hasher:    hasher,
		clock:     clock,
	}
}

// 担当者登録実行
func (u *CreateOperatorUsecase) Execute(ctx context.Context, in CreateOperatorInput) (model.Operator, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if !validator.IsOperatorCode(code) || name == "" {
		return model.Operator{}, ErrInvalidInput
	}
	if !validator.IsPIN(in.PIN) {
		return model.Operator{}, ErrInvalidPIN
	}

	role := in.Role
	switch role {
	case "":
		role = model.RoleCashier
	case model.RoleCashier, model.RoleSupervisor:
	default:
		return model.Operator{}, ErrInvalidInput
	}

	// コード重複チェック
	existing, err := u.operators.FindByCode(ctx, code)
	if err == nil && existing != nil {
		return model.Operator{}, ErrOperatorAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.Operator{}, err
	}

	// PINをハッシュ化
	hashed, err := u.hasher.Hash(in.PIN)
	if err != nil {
		return model.Operator{}, err
	}

	now := u.clock.Now()
	op := &model.Operator{
		Code:      code,
		Name:      name,
		PINHash:   hashed, // ハッシュを保存（平文は保存しない）
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.operators.Create(ctx, op); err != nil {
		return model.Operator{}, err
	}

	safe := *op
	safe.PINHash = ""
	return safe, nil
}

// bcryptハッシュ化
type BcryptPINHasher struct {
	cost int
}

// DI
func NewBcryptPINHasher(cost int) *BcryptPINHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPINHasher{cost}
}

func (h *BcryptPINHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPINVerifier struct{}

// DI
func NewBcryptPINVerifier() *BcryptPINVerifier {
	return &BcryptPINVerifier{}
}

func (v *BcryptPINVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
