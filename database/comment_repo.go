package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByPost returns the post's comments oldest first, with authors attached.
func (r *CommentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

// FindByID returns a comment with its author attached, or nil when no such
// comment exists.
func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Add inserts a new comment. A foreign-key violation means the post is gone.
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// DeleteByAuthor removes a comment only when it belongs to the given author
// and reports whether a row was actually deleted.
func (r *CommentRepo) DeleteByAuthor(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Comment{})
	return res.RowsAffected > 0, res.Error
}
