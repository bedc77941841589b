package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pos/internal/domain/model"
	"pos/internal/usecase"
)

// 伝票サーバーへのaction名
const (
	ActionRecalculate = "recalculate-document"
	ActionPause       = "pause-document"
	ActionResume      = "resume-document"
	ActionSave        = "save-document"
	ActionSaveCashup  = "save-cashup"
)

const errBodyLimit = 4 * 1024

// 伝票サーバーが2xx以外を返した
type ServerError struct {
	Action string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("document server %s: %d: %s", e.Action, e.Status, e.Body)
}

// Client は伝票サーバー（価格・税・保存の正）のHTTPクライアント。
// すべて1つのURLへ action 付きのフォームをPOSTし、JSONを受け取る。
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}
}

var _ usecase.DocumentServer = (*Client)(nil)

// 顧客・商品・バーコード検索。空クエリはサーバーに聞かない
func (c *Client) Search(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchItem{}, nil
	}

	form := url.Values{}
	form.Set("query", query)

	var items []model.SearchItem
	if err := c.post(ctx, "search-"+string(kind), form, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.SearchItem{}
	}
	return items, nil
}

// 明細とフォームを送り、サーバーが計算した伝票と明細を受け取る
func (c *Client) Recalculate(ctx context.Context, lines []model.LineItem, form url.Values) (model.DocumentResponse, error) {
	values, err := withLines(lines, form)
	if err != nil {
		return model.DocumentResponse{}, err
	}

	var out model.DocumentResponse
	if err := c.post(ctx, ActionRecalculate, values, &out); err != nil {
		return model.DocumentResponse{}, err
	}
	return out, nil
}

// 伝票を一時停止（サーバー側で保存される）
func (c *Client) PauseDocument(ctx context.Context, lines []model.LineItem, form url.Values) error {
	values, err := withLines(lines, form)
	if err != nil {
		return err
	}
	return c.post(ctx, ActionPause, values, nil)
}

// 一時停止した伝票を取得
func (c *Client) ResumeDocument(ctx context.Context, code string) (model.DocumentResponse, error) {
	form := url.Values{}
	form.Set("code", code)

	var out model.DocumentResponse
	if err := c.post(ctx, ActionResume, form, &out); err != nil {
		return model.DocumentResponse{}, err
	}
	return out, nil
}

// 会計フォーム（action/lines/payments/codpago込み）を送って伝票を保存
func (c *Client) SaveDocument(ctx context.Context, form url.Values) (usecase.SaveResult, error) {
	var out usecase.SaveResult
	if err := c.post(ctx, form.Get("action"), form, &out); err != nil {
		return usecase.SaveResult{}, err
	}
	return out, nil
}

// レジ締め
func (c *Client) SaveCashup(ctx context.Context, form url.Values) error {
	return c.post(ctx, ActionSaveCashup, form, nil)
}

func withLines(lines []model.LineItem, form url.Values) (url.Values, error) {
	if lines == nil {
		lines = []model.LineItem{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}

	values := url.Values{}
	for k, v := range form {
		values[k] = append([]string(nil), v...)
	}
	values.Set("lines", string(raw))
	return values, nil
}

func (c *Client) post(ctx context.Context, action string, form url.Values, out any) error {
	// 呼び出し側に期限が無ければタイムアウトを付ける
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	values := url.Values{}
	for k, v := range form {
		values[k] = v
	}
	values.Set("action", action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("document server %s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return &ServerError{Action: action, Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("document server %s: decode: %w", action, err)
	}
	return nil
}
