package database

import (
	"context"
	"errors"

	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

type StoreRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) *StoreRepo {
	return &StoreRepo{db}
}

// FindAll returns all stores ordered by store code.
func (r *StoreRepo) FindAll(ctx context.Context) ([]*models.Store, error) {
	var stores []*models.Store
	err := r.db.WithContext(ctx).Order("code asc").Find(&stores).Error
	return stores, err
}

// FindAllWithMembers returns all stores with their affiliated users attached.
func (r *StoreRepo) FindAllWithMembers(ctx context.Context) ([]*models.Store, error) {
	var stores []*models.Store
	err := r.db.WithContext(ctx).Preload("Users").Find(&stores).Error
	return stores, err
}

// FindByCode returns a store by code, or nil when no such store exists.
func (r *StoreRepo) FindByCode(ctx context.Context, code string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}
