package model

import "time"

// 注文時点のスナップショット。メニューを後から編集しても過去の注文は変わらない。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID int64 `gorm:"not null;index" json:"-"`

	//メニュー項目ID（先頭一致でストアを引く）
	MenuItemID string `gorm:"type:varchar(100);not null" json:"id"`

	NameSnapshot  string    `gorm:"type:varchar(255);not null" json:"name"`
	PriceSnapshot int64     `gorm:"not null" json:"price"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
