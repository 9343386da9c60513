package models

import "time"

// Enhancement stores one AI-enhanced version of an idea's content.
type Enhancement struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	IdeaID          string    `json:"idea_id" gorm:"column:idea_id;index;not null"`
	OriginalContent string    `json:"original_content"`
	EnhancedContent string    `json:"enhanced_content"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for Enhancement Model
func (Enhancement) TableName() string {
	return "enhancements"
}
