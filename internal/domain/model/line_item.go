package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// 明細が見つからない（IDまたはindexが範囲外）
	ErrLineNotFound = errors.New("line not found")

	// 編集できない項目
	ErrUnknownField = errors.New("unknown field")

	// 数値項目に数値以外
	ErrInvalidValue = errors.New("invalid value")
)

// 編集可能な明細項目（サーバー側の項目名に合わせる）
const (
	FieldQuantity    = "cantidad"
	FieldPrice       = "pvpunitario"
	FieldDiscount    = "dtopor"
	FieldDescription = "descripcion"
)

// 販売伝票の明細1行。
// 値はサーバーの再計算後だけ正しい。クライアント側の編集は次のレスポンスで上書きされる。
type LineItem struct {
	ID          string          `json:"id"`
	Reference   string          `json:"referencia"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Price       decimal.Decimal `json:"pvpunitario"`
	Discount    decimal.Decimal `json:"dtopor"`
	Total       decimal.Decimal `json:"pvptotal"`
}

// 新しい明細（数量1）
func NewLineItem(code, description string) LineItem {
	return LineItem{
		ID:          uuid.NewString(),
		Reference:   code,
		Description: description,
		Quantity:    decimal.NewFromInt(1),
	}
}

// 1項目だけ書き換える
func (l *LineItem) Set(field, value string) error {
	switch field {
	case FieldDescription:
		l.Description = value
		return nil
	case FieldQuantity, FieldPrice, FieldDiscount:
	default:
		return ErrUnknownField
	}

	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return ErrInvalidValue
	}

	switch field {
	case FieldQuantity:
		l.Quantity = d
	case FieldPrice:
		l.Price = d
	case FieldDiscount:
		l.Discount = d
	}
	return nil
}
