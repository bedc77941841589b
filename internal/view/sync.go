package view

import (
	"pos/internal/domain/model"
)

// 販売伝票フォームの初期コントロール
func DefaultForm() model.Form {
	return model.Form{
		{Name: "codcliente", Type: "hidden"},
		{Name: "codserie", Type: "select"},
		{Name: "codalmacen", Type: "select"},
		{Name: "codpago", Type: "select"},
		{Name: "fecha", Type: "date"},
		{Name: "hora", Type: "time"},
		{Name: "dtopor1", Type: "number"},
		{Name: "observaciones", Type: "textarea"},
		{Name: "netosindto", Type: "hidden"},
		{Name: "totaliva", Type: "hidden"},
		{Name: "total", Type: "hidden"},
		{Name: "editable", Type: model.ControlCheckbox},
	}
}

// Project はサーバーの伝票項目を同じnameのコントロールへ写す。
// checkboxは checked、それ以外は value。docに無い項目はそのまま。
func Project(form model.Form, doc model.Document) model.Form {
	out := form.Clone()
	for i := range out {
		c := &out[i]
		if c.Name == "" {
			continue
		}
		v, ok := doc[c.Name]
		if !ok {
			continue
		}
		if c.Type == model.ControlCheckbox {
			c.Checked = model.Truthy(v)
			continue
		}
		c.Value = model.FormatValue(v)
	}
	return out
}

// 画面の合計表示（cartTotalDisplay / cartTaxesDisplay / cartNetoDisplay と checkoutTotal）
type Totals struct {
	Total string `json:"total"`
	Taxes string `json:"taxes"`
	Net   string `json:"net"`
}

func TotalsOf(doc model.Document) Totals {
	return Totals{
		Total: doc.String(model.DocTotal),
		Taxes: doc.String(model.DocTaxes),
		Net:   doc.String(model.DocNet),
	}
}

// 1回のやり取りで画面に返すもの
type State struct {
	Revision     uint64           `json:"revision"`
	Synced       bool             `json:"synced"` // falseの間は合計が古い（会計不可）
	Doc          model.Document   `json:"doc"`
	Lines        []model.LineItem `json:"lines"`
	Customer     string           `json:"customer"`
	CustomerName string           `json:"customer_name"`
	Controls     model.Form       `json:"controls"`
	Totals       Totals           `json:"totals"`
	CartHTML     string           `json:"cart_html"`
}
