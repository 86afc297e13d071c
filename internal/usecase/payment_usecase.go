package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catering/internal/config"
	"catering/internal/domain/lifecycle"
	"catering/internal/domain/model"
	repo "catering/internal/repository"
	"catering/pkg/logger"
)

// PaymentUsecaseはゲートウェイコールバックの照合役。
// 支払いの真実はゲートウェイとOrder Storeにあり、通知配送には依存しない。
type PaymentUsecase struct {
	orders   repo.OrderRepository
	items    repo.OrderItemRepository
	stores   repo.StoreRepository
	audit    repo.AuditLogRepository
	gateway  PaymentGateway
	notifier Notifier
	cfg      config.Config
	log      logger.Logger
}

func NewPaymentUsecase(
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	stores repo.StoreRepository,
	audit repo.AuditLogRepository,
	gateway PaymentGateway,
	notifier Notifier,
	cfg config.Config,
	log logger.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		orders:   orders,
		items:    items,
		stores:   stores,
		audit:    audit,
		gateway:  gateway,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// Confirm は (orderId, paymentKey, amount) を照合してpayment_completedを1回だけ適用する。
// すでに同じキーで確定済みなら何もせず成功（冪等）。
func (u *PaymentUsecase) Confirm(ctx context.Context, orderID int64, paymentKey string, amount int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	paymentKey = strings.TrimSpace(paymentKey)
	if paymentKey == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid payment_key")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if isNotFound(err) {
		return lifecycle.ErrNotFound
	}
	if err != nil {
		return err
	}

	//再確認の冪等ケース。通知も再送しない。
	if alreadyConfirmed(o) {
		if o.TossPaymentKey == paymentKey && o.TotalAmount == amount {
			return nil
		}
		return fmt.Errorf("%w: order %d already %s", lifecycle.ErrInvalidTransition, orderID, o.Status)
	}

	if !lifecycle.Confirmable(o.Status) {
		return fmt.Errorf("%w: cannot confirm from %s", lifecycle.ErrInvalidTransition, o.Status)
	}

	//一番大事なガード。記録済みtotal_amountと完全一致しない確認は拒否する。
	if amount != o.TotalAmount {
		return fmt.Errorf("%w: confirmed %d, recorded %d", lifecycle.ErrAmountMismatch, amount, o.TotalAmount)
	}

	store, _, err := storeForOrder(ctx, u.items, u.stores, orderID)
	if err != nil {
		return err
	}

	secret := u.cfg.ResolveTossSecret(store.SecretKeyName)
	if secret == "" {
		return fmt.Errorf("%w: no gateway secret for store %s", lifecycle.ErrUpstreamUnavailable, store.ID)
	}

	if err := u.gateway.Confirm(ctx, secret, paymentKey, orderID, amount); err != nil {
		//注文は一切触らない。途中状態は作らない
		return fmt.Errorf("%w: %v", lifecycle.ErrUpstreamUnavailable, err)
	}

	won, err := u.orders.UpdateStatusIf(ctx, orderID, lifecycle.ConfirmableStatuses, model.OrderStatusPaymentCompleted, map[string]any{
		"toss_payment_key": paymentKey,
		"payment_link":     "",
	})
	if err != nil {
		return err
	}
	if !won {
		//並走した確認に負けた。同じキーなら冪等成功扱い
		cur, rerr := u.orders.FindByID(ctx, orderID)
		if rerr != nil {
			return rerr
		}
		if alreadyConfirmed(cur) && cur.TossPaymentKey == paymentKey {
			return nil
		}
		return fmt.Errorf("%w: order %d moved to %s", lifecycle.ErrInvalidTransition, orderID, cur.Status)
	}

	if aerr := u.audit.Create(ctx, model.AuditLog{
		ActorEmail:   "gateway:" + paymentKey,
		Action:       model.AuditActionPayment,
		OrderID:      orderID,
		BeforeStatus: string(o.Status),
		AfterStatus:  string(model.OrderStatusPaymentCompleted),
		CreatedAt:    time.Now(),
	}); aerr != nil {
		u.log.Warnf(ctx, "audit write failed for order %d: %v", orderID, aerr)
	}

	//状態の永続化が済んでからbest effortで通知
	params := notifyParams(o, store)
	if err := u.notifier.Send(ctx, TplPaymentCompleted, store.ContactPhone, params); err != nil {
		u.log.Warnf(ctx, "payment notify (store) failed for order %d: %v", orderID, err)
	}
	if err := u.notifier.Send(ctx, TplPaymentCompleted, o.UserEmail, params); err != nil {
		u.log.Warnf(ctx, "payment notify (customer) failed for order %d: %v", orderID, err)
	}

	return nil
}

func alreadyConfirmed(o model.Order) bool {
	switch o.Status {
	case model.OrderStatusPaymentCompleted, model.OrderStatusShipping, model.OrderStatusDeliveryCompleted:
		return true
	}
	return false
}
