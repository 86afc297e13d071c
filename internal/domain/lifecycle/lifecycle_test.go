package lifecycle

import (
	"errors"
	"testing"

	"catering/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		name string
		from model.OrderStatus
		to   model.OrderStatus
		ok   bool
	}{
		{"submitted to accepted", model.OrderStatusSubmitted, model.OrderStatusAccepted, true},
		{"submitted to link", model.OrderStatusSubmitted, model.OrderStatusPaymentLinkIssued, true},
		{"submitted to paid", model.OrderStatusSubmitted, model.OrderStatusPaymentCompleted, true},
		{"submitted to cancelled", model.OrderStatusSubmitted, model.OrderStatusCancelled, true},
		{"accepted to link", model.OrderStatusAccepted, model.OrderStatusPaymentLinkIssued, true},
		{"accepted to paid is forbidden", model.OrderStatusAccepted, model.OrderStatusPaymentCompleted, false},
		{"link to paid", model.OrderStatusPaymentLinkIssued, model.OrderStatusPaymentCompleted, true},
		{"link withdrawn back to accepted", model.OrderStatusPaymentLinkIssued, model.OrderStatusAccepted, true},
		{"paid to shipping", model.OrderStatusPaymentCompleted, model.OrderStatusShipping, true},
		{"paid cannot cancel", model.OrderStatusPaymentCompleted, model.OrderStatusCancelled, false},
		{"shipping to completed", model.OrderStatusShipping, model.OrderStatusDeliveryCompleted, true},
		{"shipping cannot cancel", model.OrderStatusShipping, model.OrderStatusCancelled, false},
		{"completed is terminal", model.OrderStatusDeliveryCompleted, model.OrderStatusShipping, false},
		{"cancelled is terminal", model.OrderStatusCancelled, model.OrderStatusSubmitted, false},
		{"no skip to delivery", model.OrderStatusSubmitted, model.OrderStatusDeliveryCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidateTransition(t *testing.T) {
	//cancelledからはどこへ行こうとしてもalready cancelled
	err := ValidateTransition(model.OrderStatusCancelled, model.OrderStatusShipping)
	assert.True(t, errors.Is(err, ErrAlreadyCancelled))

	err = ValidateTransition(model.OrderStatusPaymentCompleted, model.OrderStatusCancelled)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	assert.NoError(t, ValidateTransition(model.OrderStatusShipping, model.OrderStatusDeliveryCompleted))
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(model.OrderStatusSubmitted))
	assert.True(t, Cancellable(model.OrderStatusAccepted))
	assert.True(t, Cancellable(model.OrderStatusPaymentLinkIssued))

	assert.False(t, Cancellable(model.OrderStatusPaymentCompleted))
	assert.False(t, Cancellable(model.OrderStatusShipping))
	assert.False(t, Cancellable(model.OrderStatusDeliveryCompleted))
	assert.False(t, Cancellable(model.OrderStatusCancelled))
}

func TestConfirmable(t *testing.T) {
	assert.True(t, Confirmable(model.OrderStatusSubmitted))
	assert.True(t, Confirmable(model.OrderStatusPaymentLinkIssued))

	assert.False(t, Confirmable(model.OrderStatusAccepted))
	assert.False(t, Confirmable(model.OrderStatusPaymentCompleted))
	assert.False(t, Confirmable(model.OrderStatusCancelled))
}

func TestValidTrackingNumber(t *testing.T) {
	//0始まりで9〜11桁
	assert.True(t, ValidTrackingNumber("010123456"))
	assert.True(t, ValidTrackingNumber("0101234567"))
	assert.True(t, ValidTrackingNumber("01012345678"))

	assert.False(t, ValidTrackingNumber("1012345678"))   //0始まりでない
	assert.False(t, ValidTrackingNumber("010123"))       //短すぎ
	assert.False(t, ValidTrackingNumber("010123456789")) //長すぎ
	assert.False(t, ValidTrackingNumber("010-1234-5678"))
	assert.False(t, ValidTrackingNumber(""))
}

func TestValidCompletionCode(t *testing.T) {
	assert.True(t, ValidCompletionCode(42, "42"))
	assert.True(t, ValidCompletionCode(42, "주문 #42"))

	assert.False(t, ValidCompletionCode(42, "41"))
	assert.False(t, ValidCompletionCode(42, "주문 #41"))
	assert.False(t, ValidCompletionCode(42, "주문 42"))
	assert.False(t, ValidCompletionCode(42, ""))
}
