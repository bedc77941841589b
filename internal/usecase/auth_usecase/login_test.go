package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"
	auth "pos/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func activeOperator() *model.Operator {
	return &model.Operator{
		ID:           3,
		Code:         "0001",
		Name:         "Ana",
		PINHash:      "hashed",
		Role:         model.RoleCashier,
		TokenVersion: 2,
		IsActive:     true,
	}
}

func TestLoginUsecase_Success(t *testing.T) {
	ops := new(OperatorRepoMock)
	ver := new(PINVerifierMock)
	iss := new(IssuerMock)
	uc := auth.NewLoginUsecase(ops, ver, iss, fixedClock{now})

	ops.On("FindByCode", mock.Anything, "0001").Return(activeOperator(), nil).Once()
	ver.On("Verify", "1234", "hashed").Return(true).Once()
	iss.On("Issue", mock.AnythingOfType("model.Operator"), "T1", now).Return("tok", now.Add(12*time.Hour), nil).Once()
	ops.On("Update", mock.Anything, mock.MatchedBy(func(op *model.Operator) bool {
		return op.LastLoginAt != nil && op.LastLoginAt.Equal(now)
	})).Return(nil).Once()

	out, err := uc.Execute(context.Background(), auth.LoginInput{Code: " 0001 ", PIN: "1234", TerminalID: "T1"})
	require.NoError(t, err)

	assert.Equal(t, "tok", out.Token.AccessToken)
	assert.Equal(t, 12*3600, out.Token.ExpiresIn)
	assert.Equal(t, 2, out.Token.TokenVersion)
	assert.Equal(t, "T1", out.TerminalID)
	assert.Empty(t, out.Operator.PINHash)

	ops.AssertExpectations(t)
	ver.AssertExpectations(t)
	iss.AssertExpectations(t)
}

func TestLoginUsecase_WrongPIN(t *testing.T) {
	ops := new(OperatorRepoMock)
	ver := new(PINVerifierMock)
	iss := new(IssuerMock)
	uc := auth.NewLoginUsecase(ops, ver, iss, fixedClock{now})

	ops.On("FindByCode", mock.Anything, "0001").Return(activeOperator(), nil).Once()
	ver.On("Verify", "9999", "hashed").Return(false).Once()

	_, err := uc.Execute(context.Background(), auth.LoginInput{Code: "0001", PIN: "9999", TerminalID: "T1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	iss.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUsecase_UnknownCode(t *testing.T) {
	ops := new(OperatorRepoMock)
	uc := auth.NewLoginUsecase(ops, new(PINVerifierMock), new(IssuerMock), fixedClock{now})

	ops.On("FindByCode", mock.Anything, "nobody").Return(nil, repository.ErrNotFound).Once()

	_, err := uc.Execute(context.Background(), auth.LoginInput{Code: "nobody", PIN: "1234", TerminalID: "T1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUsecase_Inactive(t *testing.T) {
	ops := new(OperatorRepoMock)
	ver := new(PINVerifierMock)
	uc := auth.NewLoginUsecase(ops, ver, new(IssuerMock), fixedClock{now})

	op := activeOperator()
	op.IsActive = false
	ops.On("FindByCode", mock.Anything, "0001").Return(op, nil).Once()

	_, err := uc.Execute(context.Background(), auth.LoginInput{Code: "0001", PIN: "1234", TerminalID: "T1"})
	assert.ErrorIs(t, err, auth.ErrOperatorInactive)
	ver.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestLoginUsecase_InvalidInput(t *testing.T) {
	uc := auth.NewLoginUsecase(new(OperatorRepoMock), new(PINVerifierMock), new(IssuerMock), fixedClock{now})

	for _, in := range []auth.LoginInput{
		{PIN: "1234", TerminalID: "T1"},
		{Code: "0001", TerminalID: "T1"},
		{Code: "0001", PIN: "1234"},
	} {
		_, err := uc.Execute(context.Background(), in)
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	}
}

func TestLoginUsecase_RepoError(t *testing.T) {
	ops := new(OperatorRepoMock)
	uc := auth.NewLoginUsecase(ops, new(PINVerifierMock), new(IssuerMock), fixedClock{now})

	dbErr := errors.New("db down")
	ops.On("FindByCode", mock.Anything, "0001").Return(nil, dbErr).Once()

	_, err := uc.Execute(context.Background(), auth.LoginInput{Code: "0001", PIN: "1234", TerminalID: "T1"})
	assert.ErrorIs(t, err, dbErr)
}
