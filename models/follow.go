package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow records that one user follows another. At most one row per
// (follower, following) pair.
type Follow struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FollowerID  uuid.UUID `json:"followerId" db:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_unique"`
	FollowingID uuid.UUID `json:"followingId" db:"following_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_follow_unique"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Following User `json:"-" gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`
}
