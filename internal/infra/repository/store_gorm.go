package repository

import (
	"context"
	"errors"

	"catering/internal/domain/model"
	repo "catering/internal/repository"

	"gorm.io/gorm"
)

type StoreGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) *StoreGormRepository {
	return &StoreGormRepository{db: db}
}

func (r *StoreGormRepository) FindByID(ctx context.Context, id string) (model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Store{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Store{}, err
	}
	return s, nil
}

func (r *StoreGormRepository) ListAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.WithContext(ctx).Order("id asc").Find(&stores).Error; err != nil {
		return []model.Store{}, err
	}
	return stores, nil
}
