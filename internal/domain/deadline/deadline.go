// Package deadlineは配達日文字列からの期限計算。
// ホストのタイムゾーンに依存しないよう、UTC深夜で日付を組んでから
// 固定+9時間だけずらす。I/Oなしの純関数のみ。
package deadline

import (
	"fmt"
	"strings"
	"time"
)

// 韓国標準時。夏時間なし。
var KST = time.FixedZone("KST", 9*60*60)

// リマインド通知を打つ現地時刻（前日）
const reminderHour = 9

// ParseDeliveryDateは "YYYYMMDD" と "YYYY-MM-DD..." の両方を受け、
// その日付のUTC深夜を返す。
func ParseDeliveryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		t, err := time.ParseInLocation("2006-01-02", s[:10], time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid delivery date %q: %w", s, err)
		}
		return t, nil
	}
	if len(s) >= 8 {
		t, err := time.ParseInLocation("20060102", s[:8], time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid delivery date %q: %w", s, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid delivery date %q", s)
}

// atはUTC深夜dateから日数をずらし、現地hh:mmを指す瞬間を返す。
// 現地hh:mm = UTC (hh:mm - 9h)。
func at(date time.Time, addDays, hour, min int) time.Time {
	d := date.AddDate(0, 0, addDays)
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute - 9*time.Hour).In(KST)
}

// PaymentDeadlineは（配達日 − 4日）の23:59現地時刻。
func PaymentDeadline(deliveryDate string) (time.Time, error) {
	d, err := ParseDeliveryDate(deliveryDate)
	if err != nil {
		return time.Time{}, err
	}
	return at(d, -4, 23, 59), nil
}

// PreparationTriggerは（配達日 − 3日）の00:05現地時刻。
func PreparationTrigger(deliveryDate string) (time.Time, error) {
	d, err := ParseDeliveryDate(deliveryDate)
	if err != nil {
		return time.Time{}, err
	}
	return at(d, -3, 0, 5), nil
}

// ReminderTriggerは配達前日の通知時刻。
func ReminderTrigger(deliveryDate string) (time.Time, error) {
	d, err := ParseDeliveryDate(deliveryDate)
	if err != nil {
		return time.Time{}, err
	}
	return at(d, -1, reminderHour, 0), nil
}

// FollowUpTriggerは配達翌日の通知時刻。
func FollowUpTrigger(deliveryDate string) (time.Time, error) {
	d, err := ParseDeliveryDate(deliveryDate)
	if err != nil {
		return time.Time{}, err
	}
	return at(d, 1, reminderHour, 0), nil
}

// IsTomorrowは現地日付で「明日が配達日」かどうか。
func IsTomorrow(deliveryDate string, now time.Time) bool {
	return daysUntil(deliveryDate, now) == 1
}

// IsYesterdayは現地日付で「昨日が配達日」かどうか。
func IsYesterday(deliveryDate string, now time.Time) bool {
	return daysUntil(deliveryDate, now) == -1
}

func daysUntil(deliveryDate string, now time.Time) int {
	d, err := ParseDeliveryDate(deliveryDate)
	if err != nil {
		//日付が壊れている注文は日数判定の対象外
		return 1 << 20
	}
	local := now.In(KST)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(today).Hours() / 24)
}
