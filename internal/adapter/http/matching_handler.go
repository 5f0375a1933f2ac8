package http

import (
	"net/http"
	"strings"

	"qloan-backend/internal/usecase/matching"
	"qloan-backend/internal/usecase/schedule"

	"github.com/labstack/echo/v4"
)

type MatchingHandler struct {
	uc        *matching.Usecase
	schedules *schedule.Usecase
}

func NewMatchingHandler(uc *matching.Usecase, schedules *schedule.Usecase) *MatchingHandler {
	return &MatchingHandler{uc: uc, schedules: schedules}
}

// credential comes in as a bearer token; the bank gateway decides what it means.
func credential(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func (h *MatchingHandler) Match(c echo.Context) error {
	res, err := h.uc.Match(c.Request().Context(), credential(c), c.Param("order_id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type settleReq struct {
	OnTime bool `json:"on_time"`
}

func (h *MatchingHandler) Settle(c echo.Context) error {
	var req settleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.uc.Complete(c.Request().Context(), c.Param("order_id"), req.OnTime)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *MatchingHandler) GetSchedule(c echo.Context) error {
	dto, err := h.schedules.GetByOrderID(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
