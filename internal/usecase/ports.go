package usecase

import (
	"context"
	"strconv"
	"strings"

	"catering/internal/domain/model"
)

// ライフサイクルイベントと1:1の通知テンプレートID。
const (
	TplOrderSubmitted    = "order_submitted"
	TplOrderAccepted     = "order_accepted"
	TplPaymentLinkIssued = "payment_link_issued"
	TplPaymentCompleted  = "payment_completed"
	TplOrderCancelled    = "order_cancelled"
	TplShippingStarted   = "shipping_started"
	TplDeliveryCompleted = "delivery_completed"
	TplDeliveryReminder  = "delivery_reminder"
	TplDeliveryFollowUp  = "delivery_follow_up"
)

// 外部コラボレータの約束。infra側が満たす。

type Notifier interface {
	Send(ctx context.Context, templateID string, recipient string, params map[string]string) error
}

type PaymentGateway interface {
	Confirm(ctx context.Context, secretKey string, paymentKey string, orderID int64, amount int64) error
}

type DocumentRenderer interface {
	Render(ctx context.Context, order model.Order, items []model.OrderItem, cancelled bool) ([]byte, error)
}

type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) (string, error)
}

// Actorは操作主体。JWTのクレームから作る。
type Actor struct {
	Email string
	Role  model.Role
}

// スイーパー等のシステム起点の操作。権限チェックを素通しする。
var SystemActor = Actor{Email: "system", Role: model.RoleAdmin}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// ストアの担当者（登録された連絡先）か管理者だけが管理操作できる。
func canManage(a Actor, s model.Store) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == model.RoleManager && strings.EqualFold(a.Email, s.ManagerEmail)
}

func notifyParams(o model.Order, s model.Store) map[string]string {
	return map[string]string{
		"order_id":      strconv.FormatInt(o.ID, 10),
		"store_title":   s.Title,
		"total_amount":  strconv.FormatInt(o.TotalAmount, 10),
		"delivery_date": o.DeliveryDate,
		"delivery_time": o.DeliveryTime,
	}
}
