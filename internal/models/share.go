package models

import "time"

// PublicShare exposes an idea read-only through an unguessable token.
type PublicShare struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	IdeaID     string    `json:"idea_id" gorm:"column:idea_id;uniqueIndex;not null"`
	ShareToken string    `json:"share_token" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for PublicShare Model
func (PublicShare) TableName() string {
	return "public_shares"
}
