package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/handler"
	infrarepo "pos/internal/infra/repository"
	repo "pos/internal/repository"
	"pos/internal/server"
	"pos/internal/usecase"
	auth "pos/internal/usecase/auth_usecase"
	"pos/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

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
	return m.Called(ctx, op).Error(0)
}

func (m *OperatorRepoMock) Update(ctx context.Context, op *model.Operator) error {
	return m.Called(ctx, op).Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type DocumentServerMock struct{ mock.Mock }

func (m *DocumentServerMock) Search(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, error) {
	args := m.Called(ctx, kind, query)
	items, _ := args.Get(0).([]model.SearchItem)
	return items, args.Error(1)
}

func (m *DocumentServerMock) Recalculate(ctx context.Context, lines []model.LineItem, form url.Values) (model.DocumentResponse, error) {
	args := m.Called(ctx, lines, form)
	resp, _ := args.Get(0).(model.DocumentResponse)
	return resp, args.Error(1)
}

func (m *DocumentServerMock) PauseDocument(ctx context.Context, lines []model.LineItem, form url.Values) error {
	return m.Called(ctx, lines, form).Error(0)
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
	return m.Called(ctx, form).Error(0)
}

// =====================
// fixture
// =====================

type app struct {
	e      *echo.Echo
	ops    *OperatorRepoMock
	audit  *AuditLogRepoMock
	server *DocumentServerMock
}

func newApp(t *testing.T) app {
	t.Helper()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	a := app{
		ops:    new(OperatorRepoMock),
		audit:  new(AuditLogRepoMock),
		server: new(DocumentServerMock),
	}

	issuer := auth.NewJWTIssuer(secret, time.Hour)
	loginUC := auth.NewLoginUsecase(a.ops, auth.NewBcryptPINVerifier(), issuer, clock{})
	posUC := usecase.NewPosUsecase(infrarepo.NewSessionMemoryRepository(), a.audit, a.server, nil, renderer, "CONT")

	a.e = server.New(server.Deps{
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Renderer:  renderer,
		JWTSecret: secret,
		Operators: a.ops,
		AuthH:     handler.NewAuthHandler(loginUC),
		PosH:      handler.NewPosHandler(posUC),
	})
	return a
}

type clock struct{}

func (clock) Now() time.Time { return time.Now() }

func (a app) token(t *testing.T, role model.Role) string {
	t.Helper()

	op := &model.Operator{ID: 7, Code: "0001", Role: role, IsActive: true}
	a.ops.On("FindByID", mock.Anything, int64(7)).Return(op, nil)

	signed, _, err := auth.NewJWTIssuer(secret, time.Hour).Issue(*op, "T1", time.Now())
	require.NoError(t, err)
	return signed
}

func (a app) do(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func widgetResponse() model.DocumentResponse {
	return model.DocumentResponse{
		Doc: model.Document{"total": 12.1},
		Lines: []model.LineItem{{
			ID: "L1", Reference: "001", Description: "Widget",
			Quantity: decimal.NewFromInt(1), Total: decimal.RequireFromString("12.1"),
		}},
	}
}

// =====================
// tests
// =====================

func TestHealthz(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestPos_RequiresToken(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/pos/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPos_AddThenRemoveByIndex(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, model.RoleCashier)

	a.server.On("Recalculate", mock.Anything, mock.MatchedBy(func(l []model.LineItem) bool { return len(l) == 1 }), mock.Anything).
		Return(widgetResponse(), nil).Once()
	a.server.On("Recalculate", mock.Anything, mock.MatchedBy(func(l []model.LineItem) bool { return len(l) == 0 }), mock.Anything).
		Return(model.DocumentResponse{Doc: model.Document{"total": 0.0}}, nil).Once()

	rec := a.do(http.MethodPost, "/pos/cart/lines", tok, `{"code":"001","description":"Widget"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var st view.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Len(t, st.Lines, 1)
	assert.Equal(t, "12.1", st.Totals.Total)
	assert.Contains(t, st.CartHTML, "Widget")

	rec = a.do(http.MethodDelete, "/pos/cart/lines/0?by=index", tok, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Empty(t, st.Lines)
	a.server.AssertExpectations(t)
}

func TestPos_EditUnknownLine(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, model.RoleCashier)

	rec := a.do(http.MethodPatch, "/pos/cart/lines/nope", tok, `{"field":"cantidad","value":"2"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "line not found", body.Error)
}

func TestPos_ScreenRendersHTML(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, model.RoleCashier)

	rec := a.do(http.MethodGet, "/pos", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="salesDocumentForm"`)
	assert.Contains(t, rec.Body.String(), "POS T1")
}

func TestPos_CashupSupervisorOnly(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, model.RoleCashier)

	rec := a.do(http.MethodPost, "/pos/cashup", tok, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	a.server.AssertNotCalled(t, "SaveCashup", mock.Anything, mock.Anything)
}

func TestPos_CheckoutEmptyCart(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, model.RoleCashier)

	rec := a.do(http.MethodPost, "/pos/checkout", tok, `{"amount":"20","method":"CONT"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthLogin(t *testing.T) {
	a := newApp(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	op := &model.Operator{ID: 7, Code: "0001", Name: "Ana", PINHash: string(hashed), Role: model.RoleCashier, IsActive: true}

	a.ops.On("FindByCode", mock.Anything, "0001").Return(op, nil)
	a.ops.On("Update", mock.Anything, mock.Anything).Return(nil)

	rec := a.do(http.MethodPost, "/auth/login", "", `{"code":"0001","pin":"1234","terminal_id":"T1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out auth.LoginOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.Empty(t, out.Operator.PINHash)

	// 発行したトークンで /pos が使える
	a.ops.On("FindByID", mock.Anything, int64(7)).Return(op, nil)
	rec = a.do(http.MethodGet, "/pos/state", out.Token.AccessToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPost, "/auth/login", "", `{"code":"0001","pin":"9999","terminal_id":"T1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPos_AuditLogs(t *testing.T) {
	t.Run("supervisor filters by terminal", func(t *testing.T) {
		a := newApp(t)
		tok := a.token(t, model.RoleSupervisor)

		logs := []model.AuditLog{{ID: 1, OperatorID: 7, TerminalID: "T1", Action: model.AuditActionCheckout, DocumentCode: "FAC-1"}}
		a.audit.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
			return f.TerminalID != nil && *f.TerminalID == "T1" && f.Limit == 10
		})).Return(logs, nil).Once()

		rec := a.do(http.MethodGet, "/pos/audit-logs?terminal=T1&limit=10", tok, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []model.AuditLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "FAC-1", got[0].DocumentCode)
		a.audit.AssertExpectations(t)
	})

	t.Run("cashier forbidden", func(t *testing.T) {
		a := newApp(t)
		tok := a.token(t, model.RoleCashier)

		rec := a.do(http.MethodGet, "/pos/audit-logs", tok, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		a.audit.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("invalid limit", func(t *testing.T) {
		a := newApp(t)
		tok := a.token(t, model.RoleSupervisor)

		rec := a.do(http.MethodGet, "/pos/audit-logs?limit=abc", tok, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		a.audit.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}
