package model

import "github.com/shopspring/decimal"

// 会計直前に作る支払情報。保存しない。
type PaymentData struct {
	Amount decimal.Decimal `json:"amount"`
	Change decimal.Decimal `json:"change"`
	Method string          `json:"method"`
}

// 検索結果1件（顧客・商品・バーコード）
type SearchItem struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type SearchKind string

const (
	SearchCustomer SearchKind = "customer"
	SearchProduct  SearchKind = "product"
	SearchBarcode  SearchKind = "barcode"
)

func (k SearchKind) Valid() bool {
	switch k {
	case SearchCustomer, SearchProduct, SearchBarcode:
		return true
	}
	return false
}
