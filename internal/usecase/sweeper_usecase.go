package usecase

import (
	"context"
	"errors"
	"time"

	"catering/internal/domain/deadline"
	"catering/internal/domain/lifecycle"
	"catering/internal/domain/model"
	"catering/internal/metrics"
	repo "catering/internal/repository"
	"catering/pkg/logger"
)

// 定期スキャン3種。全部冪等で、1件の失敗は握ってログに残し、次へ進む。
type SweeperUsecase struct {
	orders   repo.OrderRepository
	items    repo.OrderItemRepository
	stores   repo.StoreRepository
	cancelUC *CancelUsecase
	notifier Notifier
	log      logger.Logger
}

func NewSweeperUsecase(
	orders repo.OrderRepository,
	items repo.OrderItemRepository,
	stores repo.StoreRepository,
	cancelUC *CancelUsecase,
	notifier Notifier,
	log logger.Logger,
) *SweeperUsecase {
	return &SweeperUsecase{
		orders:   orders,
		items:    items,
		stores:   stores,
		cancelUC: cancelUC,
		notifier: notifier,
		log:      log,
	}
}

type SweepResult struct {
	Scanned int
	Applied int
	Failed  int
}

// AutoCancelExpired は支払い期限（配達日−4日 23:59 KST）を過ぎた
// 未決済注文を「결제기한만료」でキャンセルする。
// 多重起動しても安全：先にキャンセルされた注文はフィルタに掛からないか、
// already-cancelledでスキップ扱いになる。
func (u *SweeperUsecase) AutoCancelExpired(ctx context.Context, now time.Time) SweepResult {
	ctx = context.WithValue(ctx, logger.CtxSweepKey, "auto_cancel")
	var res SweepResult

	orders, err := u.orders.ListByStatuses(ctx, []model.OrderStatus{
		model.OrderStatusSubmitted,
		model.OrderStatusPaymentLinkIssued,
	})
	if err != nil {
		u.log.Errorf(ctx, "auto-cancel scan failed: %v", err)
		return res
	}

	for _, o := range orders {
		res.Scanned++
		metrics.SweepScanned.WithLabelValues("auto_cancel").Inc()

		dl, err := deadline.PaymentDeadline(o.DeliveryDate)
		if err != nil {
			res.Failed++
			metrics.SweepFailed.WithLabelValues("auto_cancel").Inc()
			u.log.Warnf(ctx, "auto-cancel: bad delivery date on order %d: %v", o.ID, err)
			continue
		}
		if !now.After(dl) {
			continue
		}

		err = u.cancelUC.Cancel(ctx, SystemActor, o.ID, lifecycle.CancelReasonDeadlineExpired)
		switch {
		case err == nil:
			res.Applied++
			metrics.SweepApplied.WithLabelValues("auto_cancel").Inc()
		case errors.Is(err, lifecycle.ErrAlreadyCancelled), errors.Is(err, lifecycle.ErrInvalidTransition):
			//並走した操作が先に状態を動かした。スキップでよい
		default:
			res.Failed++
			metrics.SweepFailed.WithLabelValues("auto_cancel").Inc()
			u.log.Warnf(ctx, "auto-cancel failed for order %d: %v", o.ID, err)
		}
	}

	u.log.Infof(ctx, "auto-cancel sweep done: scanned=%d applied=%d failed=%d", res.Scanned, res.Applied, res.Failed)
	return res
}

// DeliveryReminder は配達日が「明日」の注文に前日リマインドを送る。状態は変えない。
func (u *SweeperUsecase) DeliveryReminder(ctx context.Context, now time.Time) SweepResult {
	ctx = context.WithValue(ctx, logger.CtxSweepKey, "delivery_reminder")
	var res SweepResult

	orders, err := u.orders.ListByStatuses(ctx, []model.OrderStatus{
		model.OrderStatusPaymentCompleted,
		model.OrderStatusShipping,
		model.OrderStatusDeliveryCompleted,
	})
	if err != nil {
		u.log.Errorf(ctx, "reminder scan failed: %v", err)
		return res
	}

	for _, o := range orders {
		res.Scanned++
		metrics.SweepScanned.WithLabelValues("delivery_reminder").Inc()

		if !deadline.IsTomorrow(o.DeliveryDate, now) {
			continue
		}

		store, _, err := storeForOrder(ctx, u.items, u.stores, o.ID)
		if err != nil {
			res.Failed++
			metrics.SweepFailed.WithLabelValues("delivery_reminder").Inc()
			u.log.Warnf(ctx, "reminder: store resolve failed for order %d: %v", o.ID, err)
			continue
		}

		params := notifyParams(o, store)
		failed := false
		if err := u.notifier.Send(ctx, TplDeliveryReminder, store.ContactPhone, params); err != nil {
			failed = true
			u.log.Warnf(ctx, "reminder notify (store) failed for order %d: %v", o.ID, err)
		}
		if err := u.notifier.Send(ctx, TplDeliveryReminder, o.UserEmail, params); err != nil {
			failed = true
			u.log.Warnf(ctx, "reminder notify (customer) failed for order %d: %v", o.ID, err)
		}
		if failed {
			res.Failed++
			metrics.SweepFailed.WithLabelValues("delivery_reminder").Inc()
		} else {
			res.Applied++
			metrics.SweepApplied.WithLabelValues("delivery_reminder").Inc()
		}
	}

	u.log.Infof(ctx, "reminder sweep done: scanned=%d applied=%d failed=%d", res.Scanned, res.Applied, res.Failed)
	return res
}

// PostDeliveryFollowUp は配達翌日のフォローを最大1回送る。
// 送信成功後にfollow_up_sentを立てるので、繰り返しスイープしても重複しない。
func (u *SweeperUsecase) PostDeliveryFollowUp(ctx context.Context, now time.Time) SweepResult {
	ctx = context.WithValue(ctx, logger.CtxSweepKey, "follow_up")
	var res SweepResult

	orders, err := u.orders.ListByStatuses(ctx, []model.OrderStatus{model.OrderStatusDeliveryCompleted})
	if err != nil {
		u.log.Errorf(ctx, "follow-up scan failed: %v", err)
		return res
	}

	for _, o := range orders {
		res.Scanned++
		metrics.SweepScanned.WithLabelValues("follow_up").Inc()

		if o.FollowUpSent {
			continue
		}
		if !deadline.IsYesterday(o.DeliveryDate, now) {
			continue
		}

		store, _, err := storeForOrder(ctx, u.items, u.stores, o.ID)
		if err != nil {
			res.Failed++
			metrics.SweepFailed.WithLabelValues("follow_up").Inc()
			u.log.Warnf(ctx, "follow-up: store resolve failed for order %d: %v", o.ID, err)
			continue
		}

		if err := u.notifier.Send(ctx, TplDeliveryFollowUp, o.UserEmail, notifyParams(o, store)); err != nil {
			//送れなかったときはフラグを立てない。次回スイープで再挑戦
			res.Failed++
			metrics.SweepFailed.WithLabelValues("follow_up").Inc()
			u.log.Warnf(ctx, "follow-up notify failed for order %d: %v", o.ID, err)
			continue
		}

		if err := u.orders.UpdateField(ctx, o.ID, "follow_up_sent", true); err != nil {
			res.Failed++
			metrics.SweepFailed.WithLabelValues("follow_up").Inc()
			u.log.Warnf(ctx, "follow-up flag update failed for order %d: %v", o.ID, err)
			continue
		}

		res.Applied++
		metrics.SweepApplied.WithLabelValues("follow_up").Inc()
	}

	u.log.Infof(ctx, "follow-up sweep done: scanned=%d applied=%d failed=%d", res.Scanned, res.Applied, res.Failed)
	return res
}
