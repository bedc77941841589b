package usecase_test

import (
	"context"
	"net/url"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// DocumentServer mock
// =====================

type DocumentServerMock struct{ mock.Mock }

func (m *DocumentServerMock) Search(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, error) {
	args := m.Called(ctx, kind, query)
	items, _ := args.Get(0).([]model.SearchItem)
	return items, args.Error(1)
}

func (m *DocumentServerMock) Recalculate(ctx context.Context, lines []model.LineItem, form url.Values) (model.DocumentResponse, error) {
	args := m.Called(ctx, lines, form)
	// 送った明細から応答を作る場合
	if fn, ok := args.Get(0).(func([]model.LineItem) model.DocumentResponse); ok {
		return fn(lines), args.Error(1)
	}
	resp, _ := args.Get(0).(model.DocumentResponse)
	return resp, args.Error(1)
}

func (m *DocumentServerMock) PauseDocument(ctx context.Context, lines []model.LineItem, form url.Values) error {
	args := m.Called(ctx, lines, form)
	return args.Error(0)
}

func (m *DocumentServerMock) ResumeDocument(ctx context.Context, code string) (model.DocumentResponse, error) {
	args := m.Called(ctx, code)
	resp, _ := args.Get(0).(model.DocumentResponse)
	return resp, args.Error(1)
}

func (m *DocumentServerMock) SaveDocument(ctx context.Context, form url.Values) (usecase.SaveResult, error) {
	args := m.Called(ctx, form)
	res, _ := args.Get(0).(usecase.SaveResult)
	return res, args.Error(1)
}

func (m *DocumentServerMock) SaveCashup(ctx context.Context, form url.Values) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

// =====================
// AuditLogRepository mock
// =====================

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// SearchCache mock
// =====================

type SearchCacheMock struct{ mock.Mock }

func (m *SearchCacheMock) Get(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, bool, error) {
	args := m.Called(ctx, kind, query)
	items, _ := args.Get(0).([]model.SearchItem)
	return items, args.Bool(1), args.Error(2)
}

func (m *SearchCacheMock) Set(ctx context.Context, kind model.SearchKind, query string, items []model.SearchItem) error {
	args := m.Called(ctx, kind, query, items)
	return args.Error(0)
}
