package database

import (
	"context"

	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindOrCreate returns the tag with the given label, creating it when absent.
// Labels are globally unique; concurrent creates of the same label resolve to
// the existing row.
func (r *TagRepo) FindOrCreate(ctx context.Context, label string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where(models.Tag{Label: label}).FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
