package repository

import (
	"context"
	"errors"

	"catering/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// ストア設定の取得だけを約束。書き込みは管理CRUD側の仕事。
type StoreRepository interface {
	FindByID(ctx context.Context, id string) (model.Store, error)
	ListAll(ctx context.Context) ([]model.Store, error)
}
