package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pos/internal/domain/model"
	"pos/internal/logging"
	repo "pos/internal/repository"
	"pos/internal/view"
)

// 保存せずに終わる
var errNoChange = errors.New("no change")

// PosUsecase はPOS画面の操作（スキャン・検索・カート編集・会計・一時停止/再開）。
// 計算はすべて伝票サーバーで行い、その結果で端末の状態を置き換える。
type PosUsecase struct {
	sessions   repo.SessionRepository
	audit      repo.AuditLogRepository
	server     DocumentServer
	cache      SearchCache
	renderer   *view.Renderer
	locks      *keyedMutex
	cashMethod string
}

// DI（cacheはnil可）
func NewPosUsecase(
	sessions repo.SessionRepository,
	audit repo.AuditLogRepository,
	server DocumentServer,
	cache SearchCache,
	renderer *view.Renderer,
	cashMethod string,
) *PosUsecase {
	return &PosUsecase{
		sessions:   sessions,
		audit:      audit,
		server:     server,
		cache:      cache,
		renderer:   renderer,
		locks:      newKeyedMutex(),
		cashMethod: cashMethod,
	}
}

// 検索結果（HTML込み）
type SearchOutput struct {
	Items []model.SearchItem `json:"items"`
	HTML  string             `json:"html"`
}

// 会計結果
type CheckoutOutput struct {
	Code    string            `json:"code"`
	Payment model.PaymentData `json:"payment"`
	State   view.State        `json:"state"`
}

// 現在の画面
func (u *PosUsecase) Screen(ctx context.Context, term Terminal) (view.State, error) {
	s, err := u.snapshot(ctx, term)
	if err != nil {
		return view.State{}, err
	}
	return u.build(s)
}

// 顧客検索
func (u *PosUsecase) SearchCustomers(ctx context.Context, query string) (SearchOutput, error) {
	return u.searchHTML(ctx, model.SearchCustomer, query)
}

// 商品検索
func (u *PosUsecase) SearchProducts(ctx context.Context, query string) (SearchOutput, error) {
	return u.searchHTML(ctx, model.SearchProduct, query)
}

// ScanBarcode はバーコードで商品を探し、見つかれば先頭の1件を追加する。
// 見つからなければカートはそのまま（matched=false）。
func (u *PosUsecase) ScanBarcode(ctx context.Context, term Terminal, code string) (view.State, bool, error) {
	items := u.search(ctx, model.SearchBarcode, code)
	if len(items) == 0 {
		st, err := u.Screen(ctx, term)
		return st, false, err
	}

	st, err := u.AddProduct(ctx, term, items[0].Code, items[0].Description)
	return st, true, err
}

// 明細を追加して再計算
func (u *PosUsecase) AddProduct(ctx context.Context, term Terminal, code, description string) (view.State, error) {
	if strings.TrimSpace(code) == "" {
		return view.State{}, NewHTTPError(http.StatusBadRequest, "code required")
	}
	return u.mutate(ctx, term, model.AddLine{Code: code, Description: description})
}

// 明細を削除して再計算
func (u *PosUsecase) RemoveLine(ctx context.Context, term Terminal, lineID string) (view.State, error) {
	return u.mutate(ctx, term, model.RemoveLine{ID: lineID})
}

// 明細の1項目を編集して再計算
func (u *PosUsecase) EditLine(ctx context.Context, term Terminal, lineID, field, value string) (view.State, error) {
	return u.mutate(ctx, term, model.EditLine{ID: lineID, Field: field, Value: value})
}

// 画面のdata-index（位置）で指定された明細のID
func (u *PosUsecase) LineIDAt(ctx context.Context, term Terminal, index int) (string, error) {
	s, err := u.snapshot(ctx, term)
	if err != nil {
		return "", err
	}
	id, err := s.Cart.IDAt(index)
	if err != nil {
		return "", mapModelError(err)
	}
	return id, nil
}

// 顧客をセットして再計算
func (u *PosUsecase) SetCustomer(ctx context.Context, term Terminal, code, name string) (view.State, error) {
	if strings.TrimSpace(code) == "" {
		return view.State{}, NewHTTPError(http.StatusBadRequest, "code required")
	}
	return u.mutate(ctx, term, model.SetCustomer{Code: code, Name: name})
}

// Recalculate は現在の明細を伝票サーバーへ送り、返ってきた伝票・明細で丸ごと置き換える。
// 送信後に別の変更が入っていたら、そのレスポンスは捨てる。
func (u *PosUsecase) Recalculate(ctx context.Context, term Terminal) (view.State, error) {
	log := logging.FromCtx(ctx)

	s, err := u.snapshot(ctx, term)
	if err != nil {
		return view.State{}, err
	}
	revision := s.Revision

	resp, err := u.server.Recalculate(ctx, s.Cart.CloneLines(), s.Form.Values())
	if err != nil {
		documentServerErrors.WithLabelValues("recalculate").Inc()
		log.Error("recalculate failed", "terminal", term.ID, "revision", revision, "error", err)
		return view.State{}, NewHTTPError(http.StatusBadGateway, "document server error")
	}

	stale := false
	s, err = u.update(ctx, term, func(cur *model.Session) error {
		err := cur.Apply(model.ReplaceFromServer{
			Response: resp,
			Revision: revision,
			Form:     view.Project(cur.Form, resp.Doc),
		})
		if errors.Is(err, model.ErrStaleResponse) {
			stale = true
			return errNoChange
		}
		return err
	})
	if err != nil {
		return view.State{}, err
	}

	if stale {
		staleRecalculations.Inc()
		log.Info("stale recalculation dropped", "terminal", term.ID, "sent_revision", revision, "current_revision", s.Revision)
	}
	return u.build(s)
}

// Pause は伝票を一時停止する（保存はサーバー側）。端末は空に戻る。
func (u *PosUsecase) Pause(ctx context.Context, term Terminal) (view.State, error) {
	s, err := u.snapshot(ctx, term)
	if err != nil {
		return view.State{}, err
	}
	if s.Cart.Len() == 0 {
		return view.State{}, NewHTTPError(http.StatusConflict, "cart empty")
	}

	lines := s.Cart.CloneLines()
	revision := s.Revision
	if err := u.server.PauseDocument(ctx, lines, s.Form.Values()); err != nil {
		documentServerErrors.WithLabelValues("pause").Inc()
		logging.FromCtx(ctx).Error("pause failed", "terminal", term.ID, "error", err)
		return view.State{}, NewHTTPError(http.StatusBadGateway, "document server error")
	}

	s, err = u.resetAfterSubmit(ctx, term, revision, lines)
	if err != nil {
		return view.State{}, err
	}

	u.writeAudit(ctx, term, model.AuditActionPauseDocument, "", lines, nil)
	return u.buildAfterReset(ctx, term, s)
}

// Resume は一時停止中の伝票を取得し、顧客・明細・画面を丸ごと置き換える。
func (u *PosUsecase) Resume(ctx context.Context, term Terminal, code string) (view.State, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return view.State{}, NewHTTPError(http.StatusBadRequest, "code required")
	}

	resp, err := u.server.ResumeDocument(ctx, code)
	if err != nil {
		documentServerErrors.WithLabelValues("resume").Inc()
		logging.FromCtx(ctx).Error("resume failed", "terminal", term.ID, "code", code, "error", err)
		return view.State{}, NewHTTPError(http.StatusBadGateway, "document server error")
	}

	var before []model.LineItem
	s, err := u.update(ctx, term, func(cur *model.Session) error {
		before = cur.Cart.CloneLines()

		if err := cur.Apply(model.Reset{Form: view.DefaultForm()}); err != nil {
			return err
		}
		if err := cur.Apply(model.SetCustomer{Code: resp.Doc.CustomerCode(), Name: resp.Doc.CustomerName()}); err != nil {
			return err
		}
		return cur.Apply(model.ReplaceFromServer{
			Response: resp,
			Revision: cur.Revision,
			Form:     view.Project(cur.Form, resp.Doc),
		})
	})
	if err != nil {
		return view.State{}, err
	}

	u.writeAudit(ctx, term, model.AuditActionResumeDocument, code, before, s.Cart.Lines)
	return u.build(s)
}

// 支払額・支払方法からお釣りを計算
func (u *PosUsecase) QuotePayment(ctx context.Context, term Terminal, amount, method string) (PaymentQuote, error) {
	s, err := u.snapshot(ctx, term)
	if err != nil {
		return PaymentQuote{}, err
	}
	if !s.Synced() {
		return PaymentQuote{}, NewHTTPError(http.StatusConflict, "cart not recalculated")
	}
	return QuotePayment(s.Doc.Total(), amount, method, u.cashMethod), nil
}

// Checkout は支払情報を付けて伝票を保存する。成功したら端末は空に戻る。
func (u *PosUsecase) Checkout(ctx context.Context, term Terminal, amount, method string) (CheckoutOutput, error) {
	if strings.TrimSpace(method) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "method required")
	}

	s, err := u.snapshot(ctx, term)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if s.Cart.Len() == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "cart empty")
	}
	if !s.Synced() {
		return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "cart not recalculated")
	}

	quote := QuotePayment(s.Doc.Total(), amount, method, u.cashMethod)
	if !quote.CheckoutEnabled {
		return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "insufficient payment")
	}

	lines := s.Cart.CloneLines()
	revision := s.Revision
	pay := quote.Payment()
	form, err := CheckoutForm(lines, pay, s.Form.Values())
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "encode error")
	}

	res, err := u.server.SaveDocument(ctx, form)
	if err != nil {
		documentServerErrors.WithLabelValues("save").Inc()
		logging.FromCtx(ctx).Error("save document failed", "terminal", term.ID, "error", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "document server error")
	}

	s, err = u.resetAfterSubmit(ctx, term, revision, lines)
	if err != nil {
		return CheckoutOutput{}, err
	}

	u.writeAudit(ctx, term, model.AuditActionCheckout, res.Code, lines, pay)

	st, err := u.buildAfterReset(ctx, term, s)
	if err != nil {
		return CheckoutOutput{}, err
	}
	return CheckoutOutput{Code: res.Code, Payment: pay, State: st}, nil
}

// レジ締め（フォームはそのままサーバーへ）
func (u *PosUsecase) SaveCashup(ctx context.Context, term Terminal, form url.Values) error {
	if err := u.server.SaveCashup(ctx, form); err != nil {
		documentServerErrors.WithLabelValues("cashup").Inc()
		logging.FromCtx(ctx).Error("cashup failed", "terminal", term.ID, "error", err)
		return NewHTTPError(http.StatusBadGateway, "document server error")
	}

	u.writeAudit(ctx, term, model.AuditActionCashup, "", nil, form)
	return nil
}

// 監査ログ一覧
func (u *PosUsecase) AuditLogs(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.audit.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// resetAfterSubmit は保存・一時停止の成功後に端末を空に戻す。
// 通信中に追加された明細（送っていないもの）は新しい伝票に残す。
// 送信済みの明細への通信中の編集はサーバーに保存済みの伝票に含まれないので捨てる（ログに残す）。
func (u *PosUsecase) resetAfterSubmit(ctx context.Context, term Terminal, revision uint64, sent []model.LineItem) (*model.Session, error) {
	return u.update(ctx, term, func(cur *model.Session) error {
		var keep []model.LineItem
		if cur.Revision != revision {
			sentIDs := make(map[string]struct{}, len(sent))
			for _, l := range sent {
				sentIDs[l.ID] = struct{}{}
			}
			for _, l := range cur.Cart.Lines {
				if _, ok := sentIDs[l.ID]; !ok {
					keep = append(keep, l)
				}
			}
			logging.FromCtx(ctx).Warn("cart changed while submitting",
				"terminal", term.ID, "sent_revision", revision, "current_revision", cur.Revision, "kept_lines", len(keep))
		}
		return cur.Apply(model.Reset{Form: view.DefaultForm(), Keep: keep})
	})
}

// 残した明細があれば再計算する。失敗しても保存・一時停止自体は成功なので今の状態を返す
func (u *PosUsecase) buildAfterReset(ctx context.Context, term Terminal, s *model.Session) (view.State, error) {
	if s.Synced() {
		return u.build(s)
	}

	st, err := u.Recalculate(ctx, term)
	if err != nil {
		logging.FromCtx(ctx).Warn("recalculate after submit failed", "terminal", term.ID, "error", err)
		return u.build(s)
	}
	return st, nil
}

// ローカル変更 → すぐ再計算
func (u *PosUsecase) mutate(ctx context.Context, term Terminal, t model.Transition) (view.State, error) {
	if _, err := u.update(ctx, term, func(cur *model.Session) error {
		return cur.Apply(t)
	}); err != nil {
		return view.State{}, err
	}
	return u.Recalculate(ctx, term)
}

func (u *PosUsecase) searchHTML(ctx context.Context, kind model.SearchKind, query string) (SearchOutput, error) {
	items := u.search(ctx, kind, query)

	html, err := u.renderer.RenderSearch(kind, items)
	if err != nil {
		return SearchOutput{}, NewHTTPError(http.StatusInternalServerError, "render error")
	}
	return SearchOutput{Items: items, HTML: html}, nil
}

// 検索は失敗しても空で返す
func (u *PosUsecase) search(ctx context.Context, kind model.SearchKind, query string) []model.SearchItem {
	log := logging.FromCtx(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchItem{}
	}

	if u.cache != nil {
		items, ok, err := u.cache.Get(ctx, kind, query)
		if err != nil {
			log.Warn("search cache get failed", "kind", kind, "error", err)
		}
		if ok {
			return items
		}
	}

	items, err := u.server.Search(ctx, kind, query)
	if err != nil {
		documentServerErrors.WithLabelValues("search").Inc()
		log.Error("search failed", "kind", kind, "query", query, "error", err)
		return []model.SearchItem{}
	}
	if items == nil {
		items = []model.SearchItem{}
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, kind, query, items); err != nil {
			log.Warn("search cache set failed", "kind", kind, "error", err)
		}
	}
	return items
}

// ロックして読み出したコピー（通信前に使う）
func (u *PosUsecase) snapshot(ctx context.Context, term Terminal) (*model.Session, error) {
	unlock := u.locks.Lock(term.ID)
	defer unlock()

	return u.load(ctx, term)
}

// ロックして 読む→fn→保存。fnが errNoChange なら保存しない
func (u *PosUsecase) update(ctx context.Context, term Terminal, fn func(cur *model.Session) error) (*model.Session, error) {
	unlock := u.locks.Lock(term.ID)
	defer unlock()

	s, err := u.load(ctx, term)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		if errors.Is(err, errNoChange) {
			return s, nil
		}
		return nil, mapModelError(err)
	}

	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// 無ければ空の状態を作る
func (u *PosUsecase) load(ctx context.Context, term Terminal) (*model.Session, error) {
	if strings.TrimSpace(term.ID) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "terminal required")
	}

	s, err := u.sessions.Load(ctx, term.ID)
	if errors.Is(err, repo.ErrNotFound) {
		s = model.NewSession(term.ID, view.DefaultForm())
		err = nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if term.OperatorID > 0 {
		s.OperatorID = term.OperatorID
	}
	return s, nil
}

func (u *PosUsecase) build(s *model.Session) (view.State, error) {
	st, err := u.renderer.Build(s)
	if err != nil {
		return view.State{}, NewHTTPError(http.StatusInternalServerError, "render error")
	}
	return st, nil
}

// 監査ログの失敗で操作は失敗させない（伝票はサーバーに保存済み）
func (u *PosUsecase) writeAudit(ctx context.Context, term Terminal, action model.AuditAction, code string, before, after any) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)

	if err := u.audit.Create(ctx, model.AuditLog{
		OperatorID:   term.OperatorID,
		TerminalID:   term.ID,
		Action:       action,
		DocumentCode: code,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	}); err != nil {
		logging.FromCtx(ctx).Error("audit log failed", "terminal", term.ID, "action", action, "error", err)
	}
}

func mapModelError(err error) error {
	switch {
	case errors.Is(err, model.ErrLineNotFound):
		return NewHTTPError(http.StatusNotFound, "line not found")
	case errors.Is(err, model.ErrUnknownField):
		return NewHTTPError(http.StatusBadRequest, "unknown field")
	case errors.Is(err, model.ErrInvalidValue):
		return NewHTTPError(http.StatusBadRequest, "invalid value")
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
