package models

import "time"

// PermissionLevel represents what a collaborator may do with an idea.
type PermissionLevel string

const (
	PermissionEdit PermissionLevel = "edit"
	PermissionView PermissionLevel = "view"
)

// Idea represents a single idea owned by a user.
type Idea struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"column:user_id;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Idea Model
func (Idea) TableName() string {
	return "ideas"
}

// IdeaCollaborator links a user to an idea that was shared with them.
type IdeaCollaborator struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	IdeaID          string          `json:"idea_id" gorm:"column:idea_id;uniqueIndex:idx_idea_user;not null"`
	UserID          string          `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_idea_user;not null"`
	PermissionLevel PermissionLevel `json:"permission_level" gorm:"default:'edit'"`
	AddedAt         time.Time       `json:"added_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for IdeaCollaborator Model
func (IdeaCollaborator) TableName() string {
	return "idea_collaborators"
}
