package usecase

import (
	"context"
	"net/url"

	"pos/internal/domain/model"
)

// 伝票サーバー（価格・税・在庫・保存の正）。
// このサービスは結果を写すだけで計算しない。
type DocumentServer interface {
	Search(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, error)
	Recalculate(ctx context.Context, lines []model.LineItem, form url.Values) (model.DocumentResponse, error)
	PauseDocument(ctx context.Context, lines []model.LineItem, form url.Values) error
	ResumeDocument(ctx context.Context, code string) (model.DocumentResponse, error)
	SaveDocument(ctx context.Context, form url.Values) (SaveResult, error)
	SaveCashup(ctx context.Context, form url.Values) error
}

// 保存した伝票
type SaveResult struct {
	Code string `json:"code"`
}

// 検索結果のキャッシュ。見つからなければ ok=false
type SearchCache interface {
	Get(ctx context.Context, kind model.SearchKind, query string) (items []model.SearchItem, ok bool, err error)
	Set(ctx context.Context, kind model.SearchKind, query string, items []model.SearchItem) error
}

// 操作している端末と担当者
type Terminal struct {
	ID         string
	OperatorID int64
}
