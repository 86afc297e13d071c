package model

import "strings"

// Storeは販売カテゴリ（ブランド）単位の設定。
type Store struct {
	//slug。メニュー項目IDの接頭辞になる
	ID string `gorm:"primaryKey;type:varchar(50)" json:"id"`

	Title string `gorm:"type:varchar(100);not null" json:"title"`
	Brand string `gorm:"type:varchar(100)" json:"brand"`

	//マネージャ通知先
	ContactPhone string `gorm:"type:varchar(30)" json:"contact_phone"`
	ManagerEmail string `gorm:"type:varchar(255);not null;index" json:"manager_email"`

	//どの環境シークレットでゲートウェイ決済するか（名前参照）
	SecretKeyName string `gorm:"type:varchar(50)" json:"-"`

	//営業制約
	BusinessDays string `gorm:"type:varchar(30)" json:"business_days"`
	OpenHour     int    `gorm:"not null;default:0" json:"open_hour"`
	CloseHour    int    `gorm:"not null;default:24" json:"close_hour"`
}

// ResolveStoreはメニュー項目IDの先頭一致でストアを引く。
// 複数一致したときはIDが最長のものが勝つ（slug同士が接頭辞関係になり得るため）。
func ResolveStore(stores []Store, menuItemID string) (Store, bool) {
	var best Store
	found := false
	for _, s := range stores {
		if s.ID == "" {
			continue
		}
		if !strings.HasPrefix(menuItemID, s.ID) {
			continue
		}
		if !found || len(s.ID) > len(best.ID) {
			best = s
			found = true
		}
	}
	return best, found
}
