package models

import "github.com/google/uuid"

// Store represents a physical store (or the head office) that users are
// affiliated with via their store code.
type Store struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Code string    `json:"code" db:"code" gorm:"type:text;not null;unique"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null"`

	Users []User `json:"users,omitempty" gorm:"foreignKey:StoreCode;references:Code"`
}
