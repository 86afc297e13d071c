package usecase

import (
	"context"
	"errors"
	"testing"

	"catering/internal/domain/lifecycle"
	"catering/internal/domain/model"
	"catering/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newManagerFixture() (*ManagerOrderUsecase, *OrderRepoMock, *OrderItemRepoMock, *StoreRepoMock, *AuditRepoMock, *NotifierMock) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	stores := new(StoreRepoMock)
	audit := new(AuditRepoMock)
	notifier := new(NotifierMock)

	//Rejectはキャンセル共通経路に委譲する。領収書再生成はここでは対象外なので
	//レンダラは常に失敗させて早期に打ち切らせる（失敗してもキャンセルは成功する）
	renderer := new(RendererMock)
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(nil), errors.New("renderer offline"))
	cancelUC := NewCancelUsecase(orders, items, stores, audit, renderer, new(BlobMock), notifier, logger.Nop{})

	uc := NewManagerOrderUsecase(orders, items, stores, audit, cancelUC, notifier, logger.Nop{})
	return uc, orders, items, stores, audit, notifier
}

var bobManager = Actor{Email: "mgr@bob.com", Role: model.RoleManager}

func managedOrder(status model.OrderStatus) model.Order {
	return model.Order{
		ID:           9,
		Status:       status,
		UserEmail:    "cust@example.com",
		TotalAmount:  200000,
		DeliveryDate: "2025-06-10",
	}
}

func stubManagedStore(items *OrderItemRepoMock, stores *StoreRepoMock) {
	items.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderItem{{MenuItemID: "bob-set-a"}}, nil)
	stores.On("ListAll", mock.Anything).
		Return([]model.Store{{ID: "bob", Title: "Bob Catering", ContactPhone: "01000000000", ManagerEmail: "mgr@bob.com"}}, nil)
}

func TestManagerAccept(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusSubmitted), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9), []model.OrderStatus{model.OrderStatusSubmitted}, model.OrderStatusAccepted, map[string]any(nil)).
		Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, TplOrderAccepted, "cust@example.com", mock.Anything).Return(nil)

	err := uc.Accept(context.Background(), bobManager, 9)
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestManagerAccept_WrongStoreManagerForbidden(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusSubmitted), nil)
	stubManagedStore(items, stores)

	other := Actor{Email: "mgr@han.com", Role: model.RoleManager}
	err := uc.Accept(context.Background(), other, 9)
	assert.True(t, errors.Is(err, lifecycle.ErrNotAuthorized))
}

func TestManagerAccept_AdminBypassesStoreCheck(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusSubmitted), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9), mock.Anything, model.OrderStatusAccepted, mock.Anything).
		Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, TplOrderAccepted, mock.Anything, mock.Anything).Return(nil)

	admin := Actor{Email: "admin@example.com", Role: model.RoleAdmin}
	err := uc.Accept(context.Background(), admin, 9)
	assert.NoError(t, err)
}

func TestManagerAccept_FromAcceptedIsInvalid(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusAccepted), nil)
	stubManagedStore(items, stores)

	err := uc.Accept(context.Background(), bobManager, 9)
	assert.True(t, errors.Is(err, lifecycle.ErrInvalidTransition))
}

func TestManagerSetPaymentLink_Issue(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusAccepted), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9),
		[]model.OrderStatus{model.OrderStatusSubmitted, model.OrderStatusAccepted},
		model.OrderStatusPaymentLinkIssued,
		map[string]any{"payment_link": "https://pay.example/X123"},
	).Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	//リンクは通知パラメータにも入る
	notifier.On("Send", mock.Anything, TplPaymentLinkIssued, "cust@example.com", mock.MatchedBy(func(p map[string]string) bool {
		return p["payment_link"] == "https://pay.example/X123"
	})).Return(nil)

	err := uc.SetPaymentLink(context.Background(), bobManager, 9, "https://pay.example/X123")
	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestManagerSetPaymentLink_ClearRollsBack(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusPaymentLinkIssued), nil)
	stubManagedStore(items, stores)
	//取り下げはorder_acceptedへ戻り、リンク列も空になる
	orders.On("UpdateStatusIf", mock.Anything, int64(9),
		[]model.OrderStatus{model.OrderStatusPaymentLinkIssued},
		model.OrderStatusAccepted,
		map[string]any{"payment_link": ""},
	).Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.SetPaymentLink(context.Background(), bobManager, 9, "")
	assert.NoError(t, err)

	//取り下げでは通知しない
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManagerSetPaymentLink_ClearWithoutLinkIsInvalid(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusAccepted), nil)
	stubManagedStore(items, stores)

	err := uc.SetPaymentLink(context.Background(), bobManager, 9, "  ")
	assert.True(t, errors.Is(err, lifecycle.ErrInvalidTransition))
}

func TestManagerSetTracking(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusPaymentCompleted), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9),
		[]model.OrderStatus{model.OrderStatusPaymentCompleted},
		model.OrderStatusShipping,
		map[string]any{"tracking_number": "01099998888"},
	).Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, TplShippingStarted, "cust@example.com", mock.Anything).Return(nil)

	err := uc.SetTracking(context.Background(), bobManager, 9, "01099998888")
	assert.NoError(t, err)
}

func TestManagerSetTracking_BadNumberRejected(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusPaymentCompleted), nil)
	stubManagedStore(items, stores)

	err := uc.SetTracking(context.Background(), bobManager, 9, "99998888")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)

	orders.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestManagerSetTracking_BeforePaymentIsInvalid(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusAccepted), nil)
	stubManagedStore(items, stores)

	err := uc.SetTracking(context.Background(), bobManager, 9, "01099998888")
	assert.True(t, errors.Is(err, lifecycle.ErrInvalidTransition))
}

func TestManagerCompleteDelivery(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusShipping), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9),
		[]model.OrderStatus{model.OrderStatusShipping},
		model.OrderStatusDeliveryCompleted,
		map[string]any(nil),
	).Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, TplDeliveryCompleted, "cust@example.com", mock.Anything).Return(nil)

	err := uc.CompleteDelivery(context.Background(), bobManager, 9, "주문 #9")
	assert.NoError(t, err)
}

func TestManagerCompleteDelivery_BadCodeRejected(t *testing.T) {
	uc, orders, items, stores, _, _ := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusShipping), nil)
	stubManagedStore(items, stores)

	err := uc.CompleteDelivery(context.Background(), bobManager, 9, "주문 #8")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestManagerReject_GoesThroughCancelPath(t *testing.T) {
	uc, orders, items, stores, audit, notifier := newManagerFixture()

	orders.On("FindByID", mock.Anything, int64(9)).Return(managedOrder(model.OrderStatusSubmitted), nil)
	stubManagedStore(items, stores)
	orders.On("UpdateStatusIf", mock.Anything, int64(9), lifecycle.CancellableStatuses, model.OrderStatusCancelled, map[string]any{
		"cancel_reason": "材料切れ",
		"payment_link":  "",
	}).Return(true, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, TplOrderCancelled, mock.Anything, mock.Anything).Return(nil).Twice()

	err := uc.Reject(context.Background(), bobManager, 9, "材料切れ")
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}
