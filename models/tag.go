package models

import "github.com/google/uuid"

// Tag is a hashtag label extracted from post content. Labels are globally
// unique and stored exactly as extracted (case-sensitive).
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Label string    `json:"label" db:"label" gorm:"type:text;not null;unique"`

	Posts []Post `json:"-" gorm:"many2many:post_tags"`
}
