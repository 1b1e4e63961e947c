package models

import (
	"time"

	"github.com/google/uuid"
)

// Post types. Store-scoped posts show up on the author's store page in
// addition to the global feed.
const (
	PostTypeIndividual = "individual"
	PostTypeStore      = "store"
)

// DefaultCategory is assigned when a post is created without a category.
const DefaultCategory = "general"

// Post represents a text post with an optional image reference. The image
// itself lives outside this system; only its URL is stored.
type Post struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AuthorID  uuid.UUID `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	Title     *string   `json:"title,omitempty" db:"title" gorm:"type:text"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url" gorm:"type:text"`
	Category  string    `json:"category" db:"category" gorm:"type:text;not null;default:'general'"`
	PostType  string    `json:"postType" db:"post_type" gorm:"type:text;not null;default:'individual'"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index"`

	Author    User       `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Tags      []Tag      `json:"tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	Reactions []Reaction `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}
