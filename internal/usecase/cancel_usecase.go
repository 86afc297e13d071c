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

// CancelUsecaseはキャンセルの唯一の入口。
// 顧客の自己キャンセル・マネージャの拒否・管理者キャンセル・期限切れスイープの
// 全部がここを通るので、副作用（領収書再生成・通知）が起点によらず揃う。
type CancelUsecase struct {
	orders   repo.OrderRepository
	items    repo.OrderItemRepository
	stores   repo.StoreRepository
	audit    repo.AuditLogRepository
	renderer DocumentRenderer
	blobs    BlobStore
	notifier Notifier
	log      logger.Logger
}

func NewCancelUsecase(
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	stores repo.StoreRepository,
	audit repo.AuditLogRepository,
	renderer DocumentRenderer,
	blobs BlobStore,
	notifier Notifier,
	log logger.Logger,
) *CancelUsecase {
	return &CancelUsecase{
		orders:   orders,
		items:    items,
		stores:   stores,
		audit:    audit,
		renderer: renderer,
		blobs:    blobs,
		notifier: notifier,
		log:      log,
	}
}

func (u *CancelUsecase) Cancel(ctx context.Context, actor Actor, orderID int64, reason string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid reason")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if isNotFound(err) {
		return lifecycle.ErrNotFound
	}
	if err != nil {
		return err
	}

	if o.Status == model.OrderStatusCancelled {
		return lifecycle.ErrAlreadyCancelled
	}
	if !lifecycle.Cancellable(o.Status) {
		//支払い確定後はキャンセル経路なし
		return fmt.Errorf("%w: cannot cancel %s", lifecycle.ErrInvalidTransition, o.Status)
	}

	store, _, err := storeForOrder(ctx, u.items, u.stores, orderID)
	if err != nil {
		return err
	}

	//本人・担当マネージャ・管理者のみ
	if !canManage(actor, store) && !strings.EqualFold(actor.Email, o.UserEmail) {
		return lifecycle.ErrNotAuthorized
	}

	//status と cancel_reason を同じ1文で書く。
	//cancelled ⇔ cancel_reason非null が途中状態で観測されないように。
	won, err := u.orders.UpdateStatusIf(ctx, orderID, lifecycle.CancellableStatuses, model.OrderStatusCancelled, map[string]any{
		"cancel_reason": reason,
		"payment_link":  "",
	})
	if err != nil {
		return err
	}
	if !won {
		//先を越された。再読みして負け方を分類する
		cur, rerr := u.orders.FindByID(ctx, orderID)
		if rerr != nil {
			return rerr
		}
		if cur.Status == model.OrderStatusCancelled {
			return lifecycle.ErrAlreadyCancelled
		}
		return fmt.Errorf("%w: cannot cancel %s", lifecycle.ErrInvalidTransition, cur.Status)
	}

	if aerr := u.audit.Create(ctx, model.AuditLog{
		ActorEmail:   actor.Email,
		Action:       model.AuditActionTransition,
		OrderID:      orderID,
		BeforeStatus: string(o.Status),
		AfterStatus:  string(model.OrderStatusCancelled),
		CreatedAt:    time.Now(),
	}); aerr != nil {
		u.log.Warnf(ctx, "audit write failed for order %d: %v", orderID, aerr)
	}

	//ここから先はbest effort。キャンセル自体はもう確定している。
	u.regenerateReceipt(ctx, orderID, reason)
	u.notifyCancelled(ctx, o, store, reason)

	return nil
}

// キャンセル版の領収書を作り直して置き場所を記録する。失敗はログのみ。
func (u *CancelUsecase) regenerateReceipt(ctx context.Context, orderID int64, reason string) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		u.log.Warnf(ctx, "receipt regen: reload failed for order %d: %v", orderID, err)
		return
	}
	lines, err := u.items.ListByOrderID(ctx, orderID)
	if err != nil {
		u.log.Warnf(ctx, "receipt regen: items load failed for order %d: %v", orderID, err)
		return
	}

	pdf, err := u.renderer.Render(ctx, o, lines, true)
	if err != nil {
		u.log.Warnf(ctx, "receipt regen: render failed for order %d: %v", orderID, err)
		return
	}

	url, err := u.blobs.Put(ctx, fmt.Sprintf("receipts/order-%d.pdf", orderID), pdf)
	if err != nil {
		u.log.Warnf(ctx, "receipt regen: upload failed for order %d: %v", orderID, err)
		return
	}

	if err := u.orders.UpdateField(ctx, orderID, "receipt_url", url); err != nil {
		u.log.Warnf(ctx, "receipt regen: url record failed for order %d: %v", orderID, err)
	}
}

// 店側と顧客への通知は互いに独立。片方の失敗がもう片方を巻き込まない。
func (u *CancelUsecase) notifyCancelled(ctx context.Context, o model.Order, store model.Store, reason string) {
	params := notifyParams(o, store)
	params["cancel_reason"] = reason

	if err := u.notifier.Send(ctx, TplOrderCancelled, store.ContactPhone, params); err != nil {
		u.log.Warnf(ctx, "cancel notify (store) failed for order %d: %v", o.ID, err)
	}
	if err := u.notifier.Send(ctx, TplOrderCancelled, o.UserEmail, params); err != nil {
		u.log.Warnf(ctx, "cancel notify (customer) failed for order %d: %v", o.ID, err)
	}
}
