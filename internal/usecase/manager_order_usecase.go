package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catering/internal/domain/lifecycle"
	"catering/internal/domain/model"
	repo "catering/internal/repository"
	"catering/pkg/logger"
)

// マネージャ操作（承諾・拒否・決済リンク・発送・配達完了）。
// どの操作も担当ストアの連絡先か管理者だけが実行できる。
type ManagerOrderUsecase struct {
	orders   repo.OrderRepository
	items    repo.OrderItemRepository
	stores   repo.StoreRepository
	audit    repo.AuditLogRepository
	cancelUC *CancelUsecase
	notifier Notifier
	log      logger.Logger
}

func NewManagerOrderUsecase(
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	stores repo.StoreRepository,
	audit repo.AuditLogRepository,
	cancelUC *CancelUsecase,
	notifier Notifier,
	log logger.Logger,
) *ManagerOrderUsecase {
	return &ManagerOrderUsecase{
		orders:   orders,
		items:    items,
		stores:   stores,
		audit:    audit,
		cancelUC: cancelUC,
		notifier: notifier,
		log:      log,
	}
}

// 注文を読み、担当権限を確かめる。管理操作の共通前段。
func (u *ManagerOrderUsecase) loadAuthorized(ctx context.Context, actor Actor, orderID int64) (model.Order, model.Store, error) {
	if orderID <= 0 {
		return model.Order{}, model.Store{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if isNotFound(err) {
		return model.Order{}, model.Store{}, lifecycle.ErrNotFound
	}
	if err != nil {
		return model.Order{}, model.Store{}, err
	}

	store, _, err := storeForOrder(ctx, u.items, u.stores, orderID)
	if err != nil {
		return model.Order{}, model.Store{}, err
	}

	if !canManage(actor, store) {
		return model.Order{}, model.Store{}, lifecycle.ErrNotAuthorized
	}
	return o, store, nil
}

// 条件付き遷移＋再読みでの負け分類＋監査。管理操作の共通後段。
func (u *ManagerOrderUsecase) transition(ctx context.Context, actor Actor, o model.Order, from []model.OrderStatus, to model.OrderStatus, extra map[string]any) error {
	won, err := u.orders.UpdateStatusIf(ctx, o.ID, from, to, extra)
	if err != nil {
		return err
	}
	if !won {
		cur, rerr := u.orders.FindByID(ctx, o.ID)
		if rerr != nil {
			return rerr
		}
		if cur.Status == model.OrderStatusCancelled {
			return lifecycle.ErrAlreadyCancelled
		}
		return fmt.Errorf("%w: order %d is %s", lifecycle.ErrInvalidTransition, o.ID, cur.Status)
	}

	if aerr := u.audit.Create(ctx, model.AuditLog{
		ActorEmail:   actor.Email,
		Action:       model.AuditActionTransition,
		OrderID:      o.ID,
		BeforeStatus: string(o.Status),
		AfterStatus:  string(to),
		CreatedAt:    time.Now(),
	}); aerr != nil {
		u.log.Warnf(ctx, "audit write failed for order %d: %v", o.ID, aerr)
	}
	return nil
}

// Accept: submitted → order_accepted
func (u *ManagerOrderUsecase) Accept(ctx context.Context, actor Actor, orderID int64) error {
	o, store, err := u.loadAuthorized(ctx, actor, orderID)
	if err != nil {
		return err
	}

	if err := lifecycle.ValidateTransition(o.Status, model.OrderStatusAccepted); err != nil {
		return err
	}
	if o.Status != model.OrderStatusSubmitted {
		return fmt.Errorf("%w: accept requires submitted, got %s", lifecycle.ErrInvalidTransition, o.Status)
	}

	if err := u.transition(ctx, actor, o, []model.OrderStatus{model.OrderStatusSubmitted}, model.OrderStatusAccepted, nil); err != nil {
		return err
	}

	if err := u.notifier.Send(ctx, TplOrderAccepted, o.UserEmail, notifyParams(o, store)); err != nil {
		u.log.Warnf(ctx, "accept notify failed for order %d: %v", orderID, err)
	}
	return nil
}

// Reject はキャンセルの別名。共通のチョークポイントを通す。
func (u *ManagerOrderUsecase) Reject(ctx context.Context, actor Actor, orderID int64, reason string) error {
	return u.cancelUC.Cancel(ctx, actor, orderID, reason)
}

// SetPaymentLink: 非空リンクで payment_link_issued へ、空リンクで order_accepted へ戻す。
func (u *ManagerOrderUsecase) SetPaymentLink(ctx context.Context, actor Actor, orderID int64, link string) error {
	o, store, err := u.loadAuthorized(ctx, actor, orderID)
	if err != nil {
		return err
	}

	link = strings.TrimSpace(link)

	if link == "" {
		//リンク取り下げ。payment_linkは必ず空に戻す
		if o.Status != model.OrderStatusPaymentLinkIssued {
			return fmt.Errorf("%w: no link to clear on %s", lifecycle.ErrInvalidTransition, o.Status)
		}
		return u.transition(ctx, actor, o,
			[]model.OrderStatus{model.OrderStatusPaymentLinkIssued},
			model.OrderStatusAccepted,
			map[string]any{"payment_link": ""},
		)
	}

	if err := lifecycle.ValidateTransition(o.Status, model.OrderStatusPaymentLinkIssued); err != nil {
		return err
	}

	if err := u.transition(ctx, actor, o,
		[]model.OrderStatus{model.OrderStatusSubmitted, model.OrderStatusAccepted},
		model.OrderStatusPaymentLinkIssued,
		map[string]any{"payment_link": link},
	); err != nil {
		return err
	}

	params := notifyParams(o, store)
	params["payment_link"] = link
	if err := u.notifier.Send(ctx, TplPaymentLinkIssued, o.UserEmail, params); err != nil {
		u.log.Warnf(ctx, "payment link notify failed for order %d: %v", orderID, err)
	}
	return nil
}

// SetTracking: payment_completed → shipping。送り状番号は0始まり9〜11桁のみ。
func (u *ManagerOrderUsecase) SetTracking(ctx context.Context, actor Actor, orderID int64, trackingNumber string) error {
	o, store, err := u.loadAuthorized(ctx, actor, orderID)
	if err != nil {
		return err
	}

	trackingNumber = strings.TrimSpace(trackingNumber)
	if !lifecycle.ValidTrackingNumber(trackingNumber) {
		return NewHTTPError(http.StatusBadRequest, "invalid tracking number")
	}

	if err := lifecycle.ValidateTransition(o.Status, model.OrderStatusShipping); err != nil {
		return err
	}

	if err := u.transition(ctx, actor, o,
		[]model.OrderStatus{model.OrderStatusPaymentCompleted},
		model.OrderStatusShipping,
		map[string]any{"tracking_number": trackingNumber},
	); err != nil {
		return err
	}

	params := notifyParams(o, store)
	params["tracking_number"] = trackingNumber
	if err := u.notifier.Send(ctx, TplShippingStarted, o.UserEmail, params); err != nil {
		u.log.Warnf(ctx, "shipping notify failed for order %d: %v", orderID, err)
	}
	return nil
}

// CompleteDelivery: shipping → delivery_completed。確認コードは注文IDか「주문 #<id>」。
func (u *ManagerOrderUsecase) CompleteDelivery(ctx context.Context, actor Actor, orderID int64, code string) error {
	o, store, err := u.loadAuthorized(ctx, actor, orderID)
	if err != nil {
		return err
	}

	if !lifecycle.ValidCompletionCode(orderID, strings.TrimSpace(code)) {
		return NewHTTPError(http.StatusBadRequest, "invalid completion code")
	}

	if err := lifecycle.ValidateTransition(o.Status, model.OrderStatusDeliveryCompleted); err != nil {
		return err
	}

	if err := u.transition(ctx, actor, o,
		[]model.OrderStatus{model.OrderStatusShipping},
		model.OrderStatusDeliveryCompleted,
		nil,
	); err != nil {
		return err
	}

	if err := u.notifier.Send(ctx, TplDeliveryCompleted, o.UserEmail, notifyParams(o, store)); err != nil {
		u.log.Warnf(ctx, "delivery notify failed for order %d: %v", orderID, err)
	}
	return nil
}
