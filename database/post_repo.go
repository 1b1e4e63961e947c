package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

// DefaultFeedLimit caps feed and ranking candidate queries so a busy window
// cannot drag the whole table into memory.
const DefaultFeedLimit = 20

// PostFilter narrows a feed query. Zero values mean "no constraint".
type PostFilter struct {
	DisplayName string       // substring match on the author's display name
	StoreCode   string       // substring match on the author's store code
	Keyword     string       // substring match on post content
	StartDate   *time.Time   // inclusive lower bound on creation time
	EndDate     *time.Time   // inclusive upper bound on creation time
	AuthorIDs   []uuid.UUID  // restrict to these authors (resolved follow set)
	Limit       int          // defaults to DefaultFeedLimit
}

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindByID returns a post with author, store, tags and reactions attached, or
// nil when no such post exists.
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.Store").
		Preload("Tags").
		Preload("Reactions").
		Preload("Comments").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Search returns the newest posts matching the filter, newest first.
func (r *PostRepo) Search(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("Author.Store").
		Preload("Tags").
		Preload("Reactions").
		Preload("Comments")

	if filter.DisplayName != "" || filter.StoreCode != "" {
		q = q.Joins("JOIN users ON users.id = posts.author_id")
		if filter.DisplayName != "" {
			q = q.Where("users.display_name LIKE ?", "%"+filter.DisplayName+"%")
		}
		if filter.StoreCode != "" {
			q = q.Where("users.store_code LIKE ?", "%"+filter.StoreCode+"%")
		}
	}
	if filter.Keyword != "" {
		q = q.Where("posts.content LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.StartDate != nil {
		q = q.Where("posts.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("posts.created_at <= ?", *filter.EndDate)
	}
	if filter.AuthorIDs != nil {
		q = q.Where("posts.author_id IN ?", filter.AuthorIDs)
	}

	var posts []*models.Post
	err := q.Order("posts.created_at desc").Limit(limit).Find(&posts).Error
	return posts, err
}

// FindSince returns every post created at or after the given instant with
// author, store and reactions attached. Ranking candidates come from here.
func (r *PostRepo) FindSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.Store").
		Preload("Reactions").
		Where("created_at >= ?", since).
		Find(&posts).Error
	return posts, err
}

// FindByAuthor returns the author's newest posts, newest first.
func (r *PostRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.Store").
		Preload("Tags").
		Preload("Reactions").
		Preload("Comments").
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Add inserts a new post into the database
func (r *PostRepo) Add(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update persists changed post fields
func (r *PostRepo) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// ReplaceTags rewrites the post's tag associations.
func (r *PostRepo) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
}

// DeleteByAuthor removes a post only when it belongs to the given author and
// reports whether a row was actually deleted. Reactions and comments cascade.
func (r *PostRepo) DeleteByAuthor(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Post{})
	return res.RowsAffected > 0, res.Error
}
