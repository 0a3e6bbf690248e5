package http

import (
	"net/http"
	"time"

	"lending-ledger/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	dto, err := h.uc.MarkPaid(c.Request().Context(), c.Param("installment_id"))
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

type penaltyReq struct {
	Amount float64 `json:"amount" validate:"gte=0,dec2"`
}

func (h *PaymentHandler) AssessPenalty(c echo.Context) error {
	var req penaltyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.AssessPenalty(c.Request().Context(), c.Param("installment_id"), req.Amount)
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, dto)
}

// FlagOverdue sweeps open installments past their due date. Intended to
// be hit by an operator or a cron-style external trigger.
func (h *PaymentHandler) FlagOverdue(c echo.Context) error {
	n, err := h.uc.FlagOverdue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(statusFromErr(err), errJSON(err))
	}
	return c.JSON(http.StatusOK, map[string]int64{"flagged": n})
}
