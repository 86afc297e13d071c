package handler

import (
	"net/http"

	"catering/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済ゲートウェイの成功リダイレクトから叩かれる公開エンドポイント。
// 認証なし。真正性はゲートウェイ照合と金額一致で担保する。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type ConfirmPaymentRequest struct {
	OrderID    int64  `json:"order_id"`
	PaymentKey string `json:"payment_key"`
	Amount     int64  `json:"amount"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/confirm", h.confirm)
}

func (h *PaymentHandler) confirm(c echo.Context) error {
	var req ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Confirm(c.Request().Context(), req.OrderID, req.PaymentKey, req.Amount); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "payment confirmed"})
}
