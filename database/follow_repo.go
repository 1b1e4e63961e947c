package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"gorm.io/gorm"
)

type FollowRepo struct {
	db *gorm.DB
}

func NewFollowRepo(db *gorm.DB) *FollowRepo {
	return &FollowRepo{db}
}

// Add inserts a new follow edge. The composite unique index on
// (follower_id, following_id) rejects duplicates.
func (r *FollowRepo) Add(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// Delete removes a follow edge and reports whether one existed.
func (r *FollowRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

// Exists reports whether follower already follows following.
func (r *FollowRepo) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// FindFollowing returns the users the given user follows.
func (r *FollowRepo) FindFollowing(ctx context.Context, followerID uuid.UUID) ([]*models.User, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Following.Store").
		Where("follower_id = ?", followerID).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(follows))
	for i := range follows {
		user := follows[i].Following
		users = append(users, &user)
	}
	return users, nil
}

// FollowingIDs returns the ids of the users the given user follows.
func (r *FollowRepo) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// CountFollowers returns how many users follow the given user.
func (r *FollowRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing returns how many users the given user follows.
func (r *FollowRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// followerCountRow is the scan target for FollowerCounts.
type followerCountRow struct {
	FollowingID uuid.UUID
	Count       int64
}

// FollowerCounts returns the follower count for every followed user in one
// grouped query. Users nobody follows are simply absent from the map.
func (r *FollowRepo) FollowerCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []followerCountRow
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("following_id, count(*) as count").
		Group("following_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.FollowingID] = row.Count
	}
	return counts, nil
}
