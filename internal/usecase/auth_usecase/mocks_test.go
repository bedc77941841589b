package auth_test

import (
	"context"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// mocks
// =====================

type OperatorRepoMock struct{ mock.Mock }

func (m *OperatorRepoMock) FindByCode(ctx context.Context, code string) (*model.Operator, error) {
	args := m.Called(ctx, code)
	op, _ := args.Get(0).(*model.Operator)
	return op, args.Error(1)
}

func (m *OperatorRepoMock) FindByID(ctx context.Context, id int64) (*model.Operator, error) {
	args := m.Called(ctx, id)
	op, _ := args.Get(0).(*model.Operator)
	return op, args.Error(1)
}

func (m *OperatorRepoMock) Create(ctx context.Context, op *model.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *OperatorRepoMock) Update(ctx context.Context, op *model.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

var _ repository.OperatorRepository = (*OperatorRepoMock)(nil)

type PINVerifierMock struct{ mock.Mock }

func (m *PINVerifierMock) Verify(plain, hashed string) bool {
	return m.Called(plain, hashed).Bool(0)
}

type IssuerMock struct{ mock.Mock }

func (m *IssuerMock) Issue(op model.Operator, terminalID string, now time.Time) (string, time.Time, error) {
	args := m.Called(op, terminalID, now)
	exp, _ := args.Get(1).(time.Time)
	return args.String(0), exp, args.Error(2)
}

type PINHasherMock struct{ mock.Mock }

func (m *PINHasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
