package usecase

import (
	"context"
	"errors"
	"fmt"

	"catering/internal/domain/lifecycle"
	"catering/internal/domain/model"
	repo "catering/internal/repository"
)

// storeForOrderは注文の所属ストアを明細から引く。
// 先頭明細のメニュー項目IDとストアslugの最長先頭一致（model.ResolveStore）。
func storeForOrder(
	ctx context.Context,
	items repo.OrderItemRepository,
	stores repo.StoreRepository,
	orderID int64,
) (model.Store, []model.OrderItem, error) {
	lines, err := items.ListByOrderID(ctx, orderID)
	if err != nil {
		return model.Store{}, nil, err
	}
	if len(lines) == 0 {
		return model.Store{}, nil, fmt.Errorf("%w: order %d has no items", lifecycle.ErrNotFound, orderID)
	}

	all, err := stores.ListAll(ctx)
	if err != nil {
		return model.Store{}, nil, err
	}

	s, ok := model.ResolveStore(all, lines[0].MenuItemID)
	if !ok {
		return model.Store{}, nil, fmt.Errorf("%w: no store for item %q", lifecycle.ErrNotFound, lines[0].MenuItemID)
	}
	return s, lines, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, lifecycle.ErrNotFound)
}
