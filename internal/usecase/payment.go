package usecase

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 会計画面の支払額・お釣りの再計算結果
type PaymentQuote struct {
	Total           decimal.Decimal `json:"total"`
	Amount          decimal.Decimal `json:"amount"`
	Change          decimal.Decimal `json:"change"`
	Method          string          `json:"method"`
	CheckoutEnabled bool            `json:"checkout_enabled"`
}

// 支払情報（会計時に送る）
func (q PaymentQuote) Payment() model.PaymentData {
	return model.PaymentData{
		Amount: q.Amount,
		Change: q.Change,
		Method: q.Method,
	}
}

// QuotePayment はお釣りを計算する。
// 空・数値でない支払額は0扱い。現金以外は多く受け取れないので支払額=合計、お釣り0。
func QuotePayment(total decimal.Decimal, amount, method, cashMethod string) PaymentQuote {
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		amt = decimal.Zero
	}

	change := amt.Sub(total)
	if method != cashMethod && change.IsPositive() {
		change = decimal.Zero
		amt = total
	}

	return PaymentQuote{
		Total:           total,
		Amount:          amt.Round(2),
		Change:          change.Round(2),
		Method:          method,
		CheckoutEnabled: !change.IsNegative(),
	}
}

// CheckoutForm は伝票保存のフォームを作る
// （action=save-document、lines/payments はJSON、codpago は支払方法のJSON文字列）。
func CheckoutForm(lines []model.LineItem, pay model.PaymentData, form url.Values) (url.Values, error) {
	if lines == nil {
		lines = []model.LineItem{}
	}

	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}
	paymentsJSON, err := json.Marshal(pay)
	if err != nil {
		return nil, fmt.Errorf("encode payments: %w", err)
	}
	methodJSON, err := json.Marshal(pay.Method)
	if err != nil {
		return nil, fmt.Errorf("encode codpago: %w", err)
	}

	out := url.Values{}
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}
	out.Set("action", "save-document")
	out.Set("lines", string(linesJSON))
	out.Set("payments", string(paymentsJSON))
	out.Set("codpago", string(methodJSON))
	return out, nil
}
