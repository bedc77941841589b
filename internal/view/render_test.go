package view_test

import (
	"bytes"
	"testing"

	"pos/internal/domain/model"
	"pos/internal/view"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RenderCart(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	lines := []model.LineItem{
		{ID: "L1", Reference: "001", Description: "Widget <b>", Quantity: decimal.NewFromInt(2), Total: decimal.RequireFromString("24.2")},
	}

	html, err := r.RenderCart(lines, model.Document{})
	require.NoError(t, err)

	assert.Contains(t, html, `data-id="L1"`)
	assert.Contains(t, html, `data-index="0"`)
	assert.Contains(t, html, "24.2")
	// エスケープされる
	assert.Contains(t, html, "Widget &lt;b&gt;")
	assert.NotContains(t, html, "cart-empty")
}

func TestRenderer_RenderCart_Empty(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	html, err := r.RenderCart(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "cart-empty")
}

func TestRenderer_RenderSearch(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)
	items := []model.SearchItem{{Code: "001", Description: "Widget", Price: decimal.RequireFromString("9.95")}}

	product, err := r.RenderSearch(model.SearchProduct, items)
	require.NoError(t, err)
	assert.Contains(t, product, "9.95")
	assert.Contains(t, product, `data-code="001"`)

	customer, err := r.RenderSearch(model.SearchCustomer, items)
	require.NoError(t, err)
	assert.NotContains(t, customer, "9.95")
}

func TestRenderer_BuildAndScreen(t *testing.T) {
	r, err := view.NewRenderer()
	require.NoError(t, err)

	s := model.NewSession("T1", view.DefaultForm())
	require.NoError(t, s.Apply(model.SetCustomer{Code: "C1", Name: "Acme"}))
	s.Doc = model.Document{"total": 12.1}

	st, err := r.Build(s)
	require.NoError(t, err)

	assert.Equal(t, "C1", st.Customer)
	assert.Equal(t, "Acme", st.CustomerName)
	assert.NotNil(t, st.Lines)
	assert.Equal(t, "12.1", st.Totals.Total)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.TemplateScreen, view.ScreenData{State: st, TerminalID: "T1"}, nil))
	assert.Contains(t, buf.String(), `id="cartTotalDisplay"`)
	assert.Contains(t, buf.String(), "POS T1")
	assert.Contains(t, buf.String(), `value="Acme"`)
}
