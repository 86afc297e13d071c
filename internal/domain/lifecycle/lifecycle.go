package lifecycle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"catering/internal/domain/model"
)

// ドメインエラー。usecase/handlerがHTTPステータスに読み替える。
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrAlreadyCancelled    = errors.New("already cancelled")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// 自動キャンセルの理由ラベル
const CancelReasonDeadlineExpired = "결제기한만료"

// statusを変える経路はこの表だけ。cancelledへは CancellableStatuses からのみ。
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusSubmitted: {
		model.OrderStatusAccepted,
		model.OrderStatusPaymentLinkIssued,
		model.OrderStatusPaymentCompleted,
		model.OrderStatusCancelled,
	},
	model.OrderStatusAccepted: {
		model.OrderStatusPaymentLinkIssued,
		model.OrderStatusCancelled,
	},
	model.OrderStatusPaymentLinkIssued: {
		//リンク取り下げで後退できる
		model.OrderStatusAccepted,
		model.OrderStatusPaymentCompleted,
		model.OrderStatusCancelled,
	},
	model.OrderStatusPaymentCompleted: {
		model.OrderStatusShipping,
	},
	model.OrderStatusShipping: {
		model.OrderStatusDeliveryCompleted,
	},
	model.OrderStatusDeliveryCompleted: {},
	model.OrderStatusCancelled:         {},
}

// 支払い済み以降はキャンセル不可。
var CancellableStatuses = []model.OrderStatus{
	model.OrderStatusSubmitted,
	model.OrderStatusAccepted,
	model.OrderStatusPaymentLinkIssued,
}

// 決済確認を受け付けられる状態。
var ConfirmableStatuses = []model.OrderStatus{
	model.OrderStatusSubmitted,
	model.OrderStatusPaymentLinkIssued,
}

func CanTransition(from, to model.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransitionはガード違反をドメインエラーで返す。
func ValidateTransition(from, to model.OrderStatus) error {
	if from == model.OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func Cancellable(s model.OrderStatus) bool {
	for _, c := range CancellableStatuses {
		if c == s {
			return true
		}
	}
	return false
}

func Confirmable(s model.OrderStatus) bool {
	for _, c := range ConfirmableStatuses {
		if c == s {
			return true
		}
	}
	return false
}

// 送り状番号は0始まり9〜11桁。
var trackingPattern = regexp.MustCompile(`^0[0-9]{8,10}$`)

func ValidTrackingNumber(code string) bool {
	return trackingPattern.MatchString(code)
}

// 配達完了コードは注文IDそのものか「주문 #<id>」。
// 暗号学的な確認ではなく、手入力の誤操作よけ。
func ValidCompletionCode(orderID int64, code string) bool {
	if code == strconv.FormatInt(orderID, 10) {
		return true
	}
	return code == fmt.Sprintf("주문 #%d", orderID)
}
