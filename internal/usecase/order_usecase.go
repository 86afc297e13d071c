package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"catering/internal/domain/deadline"
	"catering/internal/domain/model"
	repo "catering/internal/repository"
	"catering/pkg/logger"

	"github.com/google/uuid"
)

type OrderUsecase struct {
	tx       repo.TransactionManager
	cancelUC *CancelUsecase
	notifier Notifier
	log      logger.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, cancelUC *CancelUsecase, notifier Notifier, log logger.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, cancelUC: cancelUC, notifier: notifier, log: log}
}

type PlaceOrderItemInput struct {
	MenuItemID string `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
}

type PlaceOrderInput struct {
	Items           []PlaceOrderItemInput
	DeliveryDate    string
	DeliveryTime    string
	DeliveryAddress string
	DetailAddress   string
	IdempotencyKey  string
}

type OrderItemOutput struct {
	MenuItemID string `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	Status          string            `json:"status"`
	CancelReason    *string           `json:"cancel_reason"`
	UserEmail       string            `json:"user_email"`
	TotalAmount     int64             `json:"total_amount"`
	DeliveryDate    string            `json:"delivery_date"`
	DeliveryTime    string            `json:"delivery_time"`
	DeliveryAddress string            `json:"delivery_address"`
	TrackingNumber  string            `json:"tracking_number"`
	PaymentLink     string            `json:"payment_link"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userEmail string, in PlaceOrderInput) (OrderOutput, error) {
	if userEmail == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "empty order")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//配達日はここで一度だけ検証する。以降の期限計算はこの文字列が前提
	if _, err := deadline.ParseDeliveryDate(in.DeliveryDate); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_date")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_address")
	}

	//明細スナップショットと合計。total_amountはこの時点で確定し以後不変
	orderItems := make([]model.OrderItem, 0, len(in.Items))
	var total int64 = 0
	for _, it := range in.Items {
		if it.MenuItemID == "" || it.Name == "" {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		if it.Price < 0 || it.Quantity <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		orderItems = append(orderItems, model.OrderItem{
			MenuItemID:    it.MenuItemID,
			NameSnapshot:  it.Name,
			PriceSnapshot: it.Price,
			Quantity:      it.Quantity,
			CreatedAt:     time.Now(),
		})
		total += it.Price * it.Quantity
	}

	var out OrderOutput
	var created model.Order
	var store model.Store

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userEmail, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		//先頭明細からストアが引けない注文は受けない
		all, err := r.Stores().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		s, ok := model.ResolveStore(all, orderItems[0].MenuItemID)
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "unknown store for item")
		}
		store = s

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			Status:          model.OrderStatusSubmitted,
			UserEmail:       userEmail,
			TotalAmount:     total,
			DeliveryDate:    in.DeliveryDate,
			DeliveryTime:    in.DeliveryTime,
			DeliveryAddress: in.DeliveryAddress,
			DetailAddress:   in.DetailAddress,
			AcceptToken:     uuid.NewString(),
			IdempotencyKey:  key,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userEmail, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created = model.Order{
			ID:              orderID,
			Status:          model.OrderStatusSubmitted,
			UserEmail:       userEmail,
			TotalAmount:     total,
			DeliveryDate:    in.DeliveryDate,
			DeliveryTime:    in.DeliveryTime,
			DeliveryAddress: in.DeliveryAddress,
			CreatedAt:       now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	//新規受付をマネージャへ通知。失敗しても注文は成立している
	if created.ID != 0 {
		if nerr := u.notifier.Send(ctx, TplOrderSubmitted, store.ContactPhone, notifyParams(created, store)); nerr != nil {
			u.log.Warnf(ctx, "submit notify failed for order %d: %v", created.ID, nerr)
		}
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userEmail string) ([]OrderOutput, error) {
	if userEmail == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserEmail(ctx, userEmail, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userEmail string, orderID int64) (OrderOutput, error) {
	if userEmail == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserEmail != userEmail {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 顧客の自己キャンセル。共通チョークポイント経由。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userEmail string, orderID int64, reason string) error {
	if userEmail == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.cancelUC.Cancel(ctx, Actor{Email: userEmail, Role: model.RoleCustomer}, orderID, reason)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuItemID: it.MenuItemID,
			Name:       it.NameSnapshot,
			Price:      it.PriceSnapshot,
			Quantity:   it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		Status:          string(o.Status),
		CancelReason:    o.CancelReason,
		UserEmail:       o.UserEmail,
		TotalAmount:     o.TotalAmount,
		DeliveryDate:    o.DeliveryDate,
		DeliveryTime:    o.DeliveryTime,
		DeliveryAddress: o.DeliveryAddress,
		TrackingNumber:  o.TrackingNumber,
		PaymentLink:     o.PaymentLink,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
