package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// サーバーが返す伝票ヘッダの項目（total, totaliva, netosindto, codcliente ...）。
type Document map[string]any

// 伝票の項目名
const (
	DocTotal        = "total"
	DocTaxes        = "totaliva"
	DocNet          = "netosindto"
	DocCustomerCode = "codcliente"
	DocCustomerName = "nombrecliente"
)

func (d Document) Total() decimal.Decimal { return d.Decimal(DocTotal) }
func (d Document) Taxes() decimal.Decimal { return d.Decimal(DocTaxes) }
func (d Document) Net() decimal.Decimal   { return d.Decimal(DocNet) }

func (d Document) CustomerCode() string { return d.String(DocCustomerCode) }
func (d Document) CustomerName() string { return d.String(DocCustomerName) }

// 数値項目。無い・変換できない場合は0
func (d Document) Decimal(name string) decimal.Decimal {
	switch v := d[name].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	case string:
		x, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return x
	default:
		return decimal.Zero
	}
}

// 文字列として取り出す。nilは空文字
func (d Document) String(name string) string {
	return FormatValue(d[name])
}

// フォームに入れる値の文字列化
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case decimal.Decimal:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// checkbox用
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != "" && t != "0" && t != "false"
	default:
		return true
	}
}

// 再計算・再開のレスポンス
type DocumentResponse struct {
	Doc   Document   `json:"doc"`
	Lines []LineItem `json:"lines"`
}
