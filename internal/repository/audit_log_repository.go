package repository

import (
	"context"

	"catering/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.AuditLog, error)
}
