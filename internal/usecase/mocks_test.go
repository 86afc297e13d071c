package usecase

import (
	"context"

	"catering/internal/domain/model"
	repo "catering/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（repository層）
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListByUserEmail(ctx context.Context, email string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, email, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByStatuses(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, statuses)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, email string, key string) (model.Order, bool, error) {
	args := m.Called(ctx, email, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus, extra map[string]any) (bool, error) {
	args := m.Called(ctx, orderID, from, to, extra)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) UpdateField(ctx context.Context, orderID int64, field string, value any) error {
	args := m.Called(ctx, orderID, field, value)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) FindByID(ctx context.Context, id string) (model.Store, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) ListAll(ctx context.Context) ([]model.Store, error) {
	args := m.Called(ctx)
	stores, _ := args.Get(0).([]model.Store)
	return stores, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, orderID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

// =====================
// Mocks（コラボレータ）
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Send(ctx context.Context, templateID string, recipient string, params map[string]string) error {
	args := m.Called(ctx, templateID, recipient, params)
	return args.Error(0)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Confirm(ctx context.Context, secretKey string, paymentKey string, orderID int64, amount int64) error {
	args := m.Called(ctx, secretKey, paymentKey, orderID, amount)
	return args.Error(0)
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(ctx context.Context, order model.Order, items []model.OrderItem, cancelled bool) ([]byte, error) {
	args := m.Called(ctx, order, items, cancelled)
	pdf, _ := args.Get(0).([]byte)
	return pdf, args.Error(1)
}

type BlobMock struct{ mock.Mock }

func (m *BlobMock) Put(ctx context.Context, path string, data []byte) (string, error) {
	args := m.Called(ctx, path, data)
	return args.String(0), args.Error(1)
}

// =====================
// Tx（モックをそのまま貸し出す）
// =====================

type txReposStub struct {
	orders *OrderRepoMock
	items  *OrderItemRepoMock
	stores *StoreRepoMock
}

func (r *txReposStub) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposStub) OrderItems() repo.OrderItemRepository { return r.items }
func (r *txReposStub) Stores() repo.StoreRepository         { return r.stores }

type TxManagerStub struct {
	repos *txReposStub
}

func (tm *TxManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(tm.repos)
}
