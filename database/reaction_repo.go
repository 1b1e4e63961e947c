package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

type ReactionRepo struct {
	db *gorm.DB
}

func NewReactionRepo(db *gorm.DB) *ReactionRepo {
	return &ReactionRepo{db}
}

// FindByOwner returns the reaction of the given kind by the given user on the
// given post, or nil when the user has not reacted that way.
func (r *ReactionRepo) FindByOwner(ctx context.Context, postID, userID uuid.UUID, kind string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		First(&reaction, "post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Add inserts a new reaction. The composite unique index on
// (user_id, post_id, kind) rejects duplicates; callers decide what a
// duplicate means.
func (r *ReactionRepo) Add(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// Delete removes a reaction by id.
func (r *ReactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, "id = ?", id).Error
}
