package model

import "time"

type OrderStatus string

const (
	OrderStatusSubmitted         OrderStatus = "submitted"
	OrderStatusAccepted          OrderStatus = "order_accepted"
	OrderStatusPaymentLinkIssued OrderStatus = "payment_link_issued"
	OrderStatusPaymentCompleted  OrderStatus = "payment_completed"
	OrderStatusShipping          OrderStatus = "shipping"
	OrderStatusDeliveryCompleted OrderStatus = "delivery_completed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

type Order struct {
	ID     int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Status OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	//cancelledのときだけ非nil
	CancelReason *string `gorm:"type:varchar(100)" json:"cancel_reason"`

	UserEmail string `gorm:"type:varchar(255);not null;index" json:"user_email"`

	//作成時に確定。以降は再計算しない（ゲートウェイ請求額の正）
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	DeliveryDate    string `gorm:"type:varchar(20);not null" json:"delivery_date"`
	DeliveryTime    string `gorm:"type:varchar(20);not null" json:"delivery_time"`
	DeliveryAddress string `gorm:"type:varchar(255);not null" json:"delivery_address"`
	DetailAddress   string `gorm:"type:varchar(255)" json:"detail_address"`

	//payment_link_issuedの間だけ入る
	PaymentLink    string `gorm:"type:varchar(500)" json:"payment_link"`
	TrackingNumber string `gorm:"type:varchar(20)" json:"tracking_number"`

	//ゲートウェイ確認の監査用キー（再確認の冪等判定にも使う）
	TossPaymentKey string `gorm:"type:varchar(200)" json:"-"`

	//承諾/拒否リンク用のワンタイムトークン
	AcceptToken string `gorm:"type:varchar(64)" json:"-"`

	//キャンセル時に再生成した領収書の置き場所
	ReceiptURL string `gorm:"type:varchar(500)" json:"receipt_url"`

	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	//配達翌日フォローを一度だけ送るためのフラグ
	FollowUpSent bool `gorm:"not null;default:false" json:"user_as_order_sent"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
