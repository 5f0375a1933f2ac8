package http

import (
	"net/http"

	"qloan-backend/internal/usecase/rating"

	"github.com/labstack/echo/v4"
)

type RatingHandler struct{ uc *rating.Usecase }

func NewRatingHandler(uc *rating.Usecase) *RatingHandler { return &RatingHandler{uc: uc} }

func (h *RatingHandler) GetRating(c echo.Context) error {
	partyID := c.Param("party_id")
	if !reHex32.MatchString(partyID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid party id"})
	}
	score, err := h.uc.CurrentRating(c.Request().Context(), partyID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"party_id": partyID, "score": score})
}
