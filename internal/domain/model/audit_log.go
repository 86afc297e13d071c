package model

import "time"

type AuditAction string

const (
	AuditActionTransition AuditAction = "ORDER_TRANSITION"
	AuditActionPayment    AuditAction = "PAYMENT_CONFIRMED"
)

// 注文の状態遷移の監査記録。遷移そのものが成功した後に書く。
type AuditLog struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorEmail   string      `gorm:"type:varchar(255);not null" json:"actor_email"`
	Action       AuditAction `gorm:"type:varchar(40);not null" json:"action"`
	OrderID      int64       `gorm:"not null;index" json:"order_id"`
	BeforeStatus string      `gorm:"type:varchar(30);not null" json:"before_status"`
	AfterStatus  string      `gorm:"type:varchar(30);not null" json:"after_status"`
	CreatedAt    time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
