package repository

import (
	"context"

	"catering/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	ListByUserEmail(ctx context.Context, email string, page int, limit int) ([]model.Order, int64, error)

	//スイーパー用。対象ステータスの注文をまとめて取る
	ListByStatuses(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error)

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, email string, key string) (model.Order, bool, error)

	//条件付き遷移。WHERE status IN (from) の1文で更新し、
	//勝者が1人だけになることをDBに保証させる。extraは同時に書く列。
	//0行更新ならfalse（先を越された）。
	UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus, extra map[string]any) (bool, error)

	//単一フィールドの原子更新（follow_up_sent, receipt_url等）
	UpdateField(ctx context.Context, orderID int64, field string, value any) error
}
