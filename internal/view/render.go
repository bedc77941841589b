package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"pos/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// テンプレート名
const (
	TemplateCart            = "cart"
	TemplateCustomerResults = "customer-results"
	TemplateProductResults  = "product-results"
	TemplateScreen          = "pos"
)

// Renderer はPOS画面のテンプレートをまとめて持つ（echo.Renderer）
type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("root").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type cartData struct {
	Lines []model.LineItem
	Doc   model.Document
}

// カート部分のHTML
func (r *Renderer) RenderCart(lines []model.LineItem, doc model.Document) (string, error) {
	return r.execute(TemplateCart, cartData{Lines: lines, Doc: doc})
}

type searchData struct {
	Items []model.SearchItem
}

// 検索結果のHTML（顧客・商品）
func (r *Renderer) RenderSearch(kind model.SearchKind, items []model.SearchItem) (string, error) {
	name := TemplateProductResults
	if kind == model.SearchCustomer {
		name = TemplateCustomerResults
	}
	return r.execute(name, searchData{Items: items})
}

// 画面全体のデータ
type ScreenData struct {
	State
	TerminalID string
}

// Build は最新の状態から画面に返す State を作る
func (r *Renderer) Build(s *model.Session) (State, error) {
	lines := s.Cart.Lines
	if lines == nil {
		lines = []model.LineItem{}
	}

	html, err := r.RenderCart(lines, s.Doc)
	if err != nil {
		return State{}, err
	}

	customer := ""
	if s.Cart.Customer != nil {
		customer = *s.Cart.Customer
	}

	return State{
		Revision:     s.Revision,
		Synced:       s.Synced(),
		Doc:          s.Doc,
		Lines:        lines,
		Customer:     customer,
		CustomerName: s.CustomerName,
		Controls:     s.Form,
		Totals:       TotalsOf(s.Doc),
		CartHTML:     html,
	}, nil
}
