package repository

import (
	"context"

	"catering/internal/domain/model"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
}
