package models

import (
	"time"

	"github.com/google/uuid"
)

// Reaction kinds. A "copy" marks a post as copied/saved by the user and is
// weighted double in the ranking score.
const (
	ReactionLike = "like"
	ReactionCopy = "copy"
)

// ValidReactionKind reports whether kind is one of the supported reaction kinds.
func ValidReactionKind(kind string) bool {
	return kind == ReactionLike || kind == ReactionCopy
}

// Reaction records one user's reaction of one kind on one post. The composite
// unique index is the correctness backstop for concurrent toggles: a second
// create for the same (user, post, kind) fails at the database.
type Reaction struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reaction_unique"`
	PostID    uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_reaction_unique"`
	Kind      string    `json:"kind" db:"kind" gorm:"type:text;not null;uniqueIndex:idx_reaction_unique"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}
