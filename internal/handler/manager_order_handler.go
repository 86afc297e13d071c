package handler

import (
	"net/http"
	"strconv"

	"catering/internal/config"
	"catering/internal/middleware"
	"catering/internal/usecase"

	"github.com/labstack/echo/v4"
)

// マネージャ向けの注文操作API
type ManagerOrderHandler struct {
	uc *usecase.ManagerOrderUsecase
}

func NewManagerOrderHandler(uc *usecase.ManagerOrderUsecase) *ManagerOrderHandler {
	return &ManagerOrderHandler{uc: uc}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type PaymentLinkRequest struct {
	Link string `json:"link"`
}

type TrackingRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

type CompleteRequest struct {
	Code string `json:"code"`
}

func (h *ManagerOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/manager/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ManagerRoleGuard())

	g.POST("/:id/accept", h.accept)
	g.POST("/:id/reject", h.reject)
	g.PUT("/:id/payment-link", h.setPaymentLink)
	g.PUT("/:id/tracking", h.setTracking)
	g.POST("/:id/complete", h.complete)
}

func (h *ManagerOrderHandler) accept(c echo.Context) error {
	actor, orderID, ok := managerRequest(c)
	if !ok {
		return nil
	}

	if err := h.uc.Accept(c.Request().Context(), actor, orderID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "accepted"})
}

func (h *ManagerOrderHandler) reject(c echo.Context) error {
	actor, orderID, ok := managerRequest(c)
	if !ok {
		return nil
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Reject(c.Request().Context(), actor, orderID, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "rejected"})
}

func (h *ManagerOrderHandler) setPaymentLink(c echo.Context) error {
	actor, orderID, ok := managerRequest(c)
	if !ok {
		return nil
	}

	var req PaymentLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetPaymentLink(c.Request().Context(), actor, orderID, req.Link); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "payment link updated"})
}

func (h *ManagerOrderHandler) setTracking(c echo.Context) error {
	actor, orderID, ok := managerRequest(c)
	if !ok {
		return nil
	}

	var req TrackingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetTracking(c.Request().Context(), actor, orderID, req.TrackingNumber); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "shipping started"})
}

func (h *ManagerOrderHandler) complete(c echo.Context) error {
	actor, orderID, ok := managerRequest(c)
	if !ok {
		return nil
	}

	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.CompleteDelivery(c.Request().Context(), actor, orderID, req.Code); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "delivery completed"})
}

// actorとパスのid取り出し。失敗時はレスポンス書き込み済みでok=falseを返す。
func managerRequest(c echo.Context) (usecase.Actor, int64, bool) {
	actor, ok := getActorFromContext(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return usecase.Actor{}, 0, false
	}
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return usecase.Actor{}, 0, false
	}
	return actor, orderID, true
}
