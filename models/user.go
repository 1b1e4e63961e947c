package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User represents an account in the internal SNS. Accounts are provisioned
// either locally or on first login against the corporate identity API.
type User struct {
	ID                   uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username             string         `json:"username" db:"username" gorm:"type:text;not null;unique"`
	Password             string         `json:"-" db:"password" gorm:"type:text;not null"`
	DisplayName          string         `json:"displayName" db:"display_name" gorm:"type:text;not null"`
	StoreCode            *string        `json:"storeCode,omitempty" db:"store_code" gorm:"type:text;index"`
	ProfileImageURL      *string        `json:"profileImageUrl,omitempty" db:"profile_image_url" gorm:"type:text"`
	InterestedCategories datatypes.JSON `json:"interestedCategories,omitempty" db:"interested_categories" gorm:"type:jsonb"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Store *Store `json:"store,omitempty" gorm:"foreignKey:StoreCode;references:Code"`
}
