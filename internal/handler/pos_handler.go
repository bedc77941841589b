package handler

import (
	"net/http"
	"strconv"

	"pos/internal/middleware"
	"pos/internal/repository"
	"pos/internal/usecase"
	"pos/internal/view"

	"github.com/labstack/echo/v4"
)

// /pos のHTTP（POS画面のイベント）
type PosHandler struct {
	uc *usecase.PosUsecase
}

// DI
func NewPosHandler(uc *usecase.PosUsecase) *PosHandler {
	return &PosHandler{uc: uc}
}

type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

type BarcodeRequest struct {
	Code string `json:"code" form:"code"`
}

type AddLineRequest struct {
	Code        string `json:"code" form:"code"`
	Description string `json:"description" form:"description"`
}

type EditLineRequest struct {
	Field string `json:"field" form:"field"`
	Value string `json:"value" form:"value"`
}

type CustomerRequest struct {
	Code        string `json:"code" form:"code"`
	Description string `json:"description" form:"description"`
}

type PaymentRequest struct {
	Amount string `json:"amount" form:"amount"`
	Method string `json:"method" form:"method"`
}

type BarcodeResponse struct {
	Matched bool       `json:"matched"`
	State   view.State `json:"state"`
}

// /pos 以下を登録
func (h *PosHandler) RegisterRoutes(e *echo.Echo, secret string, operators repository.OperatorRepository) {
	g := e.Group("/pos")
	g.Use(middleware.AuthJWT(secret))
	g.Use(middleware.OperatorActiveGuard(operators))

	g.GET("", h.screen)
	g.GET("/state", h.state)

	g.POST("/search/customer", h.searchCustomer)
	g.POST("/search/product", h.searchProduct)
	g.POST("/barcode", h.scanBarcode)

	g.POST("/cart/lines", h.addLine)
	g.PATCH("/cart/lines/:id", h.editLine)
	g.DELETE("/cart/lines/:id", h.deleteLine)
	g.PUT("/customer", h.setCustomer)
	g.POST("/recalculate", h.recalculate)

	g.POST("/checkout/quote", h.quote)
	g.POST("/checkout", h.checkout)
	g.POST("/pause", h.pause)
	g.POST("/resume/:code", h.resume)

	sup := g.Group("", middleware.SupervisorGuard())
	sup.POST("/cashup", h.cashup)
	sup.GET("/audit-logs", h.auditLogs)
}

func (h *PosHandler) screen(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	st, err := h.uc.Screen(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}

	return c.Render(http.StatusOK, view.TemplateScreen, view.ScreenData{State: st, TerminalID: term.ID})
}

func (h *PosHandler) state(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	st, err := h.uc.Screen(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) searchCustomer(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SearchCustomers(c.Request().Context(), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PosHandler) searchProduct(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SearchProducts(c.Request().Context(), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PosHandler) scanBarcode(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BarcodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	st, matched, err := h.uc.ScanBarcode(c.Request().Context(), term, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, BarcodeResponse{Matched: matched, State: st})
}

func (h *PosHandler) addLine(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	st, err := h.uc.AddProduct(c.Request().Context(), term, req.Code, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) editLine(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	lineID, err := h.lineID(c, term)
	if err != nil {
		return writeError(c, err)
	}

	var req EditLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	st, err := h.uc.EditLine(c.Request().Context(), term, lineID, req.Field, req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) deleteLine(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	lineID, err := h.lineID(c, term)
	if err != nil {
		return writeError(c, err)
	}

	st, err := h.uc.RemoveLine(c.Request().Context(), term, lineID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// :id は明細ID。?by=index のときは画面の位置（data-index）
func (h *PosHandler) lineID(c echo.Context, term usecase.Terminal) (string, error) {
	raw := c.Param("id")
	if c.QueryParam("by") != "index" {
		return raw, nil
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		return "", usecase.NewHTTPError(http.StatusBadRequest, "invalid index")
	}
	return h.uc.LineIDAt(c.Request().Context(), term, index)
}

func (h *PosHandler) setCustomer(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	st, err := h.uc.SetCustomer(c.Request().Context(), term, req.Code, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) recalculate(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	st, err := h.uc.Recalculate(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) quote(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.QuotePayment(c.Request().Context(), term, req.Amount, req.Method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PosHandler) checkout(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), term, req.Amount, req.Method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PosHandler) pause(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	st, err := h.uc.Pause(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *PosHandler) resume(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	st, err := h.uc.Resume(c.Request().Context(), term, c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// レジ締め（フォームをそのまま転送）
func (h *PosHandler) cashup(c echo.Context) error {
	term, ok := getTerminalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SaveCashup(c.Request().Context(), term, form); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PosHandler) auditLogs(c echo.Context) error {
	filter := repository.AuditLogFilter{}

	if v := c.QueryParam("terminal"); v != "" {
		filter.TerminalID = &v
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		filter.Limit = l
	}

	logs, err := h.uc.AuditLogs(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
