package http

import (
	"net/http"

	orderDomain "qloan-backend/internal/domain/order"
	"qloan-backend/internal/usecase/order"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct{ uc *order.Usecase }

func NewOrderHandler(uc *order.Usecase) *OrderHandler { return &OrderHandler{uc: uc} }

type submitBorrowerReq struct {
	BorrowerID     string          `json:"borrower_id" validate:"required,hex32"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months" validate:"required,gte=1"`
	MaxRate        decimal.Decimal `json:"max_rate"`
}

type submitLenderReq struct {
	LenderID string          `json:"lender_id" validate:"required,hex32"`
	Offered  decimal.Decimal `json:"offered"`
	MinRate  decimal.Decimal `json:"min_rate"`
}

func (h *OrderHandler) SubmitBorrower(c echo.Context) error {
	var req submitBorrowerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.SubmitBorrower(c.Request().Context(), order.SubmitBorrowerInput{
		BorrowerID:     req.BorrowerID,
		Principal:      req.Principal,
		DurationMonths: req.DurationMonths,
		MaxRate:        req.MaxRate,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *OrderHandler) SubmitLender(c echo.Context) error {
	var req submitLenderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.SubmitLender(c.Request().Context(), order.SubmitLenderInput{
		LenderID: req.LenderID,
		Offered:  req.Offered,
		MinRate:  req.MinRate,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func listFilter(c echo.Context) order.ListFilter {
	return order.ListFilter{
		PartyID:  c.QueryParam("party_id"),
		OnlyOpen: c.QueryParam("open") == "true",
	}
}

func (h *OrderHandler) ListBorrowers(c echo.Context) error {
	key, ok := orderDomain.ParseSortKey(c.QueryParam("sort"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown sort key"})
	}
	out, err := h.uc.ListBorrowers(c.Request().Context(), key, listFilter(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) ListLenders(c echo.Context) error {
	key, ok := orderDomain.ParseSortKey(c.QueryParam("sort"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown sort key"})
	}
	out, err := h.uc.ListLenders(c.Request().Context(), key, listFilter(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) GetBorrower(c echo.Context) error {
	dto, err := h.uc.GetBorrower(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// CancelBorrower / CancelLender share the DELETE verb; the side is in the path.
func (h *OrderHandler) CancelBorrower(c echo.Context) error {
	dto, err := h.uc.CancelBorrower(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *OrderHandler) CancelLender(c echo.Context) error {
	dto, err := h.uc.CancelLender(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
