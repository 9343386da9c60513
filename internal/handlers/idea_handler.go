package handlers

import (
	"net/http"

	"idea-collab-api/internal/database"
	"idea-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdeaRequest represents the create/update idea payload
type IdeaRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IdeaListItem is one row in the idea list, annotated with ownership info.
type IdeaListItem struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	OwnerUsername   string `json:"owner_username,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`
	PermissionLevel string `json:"permission_level,omitempty"`
	IsOwner         bool   `json:"is_owner"`
}

// CollaboratorResponse is one collaborator of an idea.
type CollaboratorResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	PermissionLevel string `json:"permission_level"`
	AddedAt         string `json:"added_at"`
}

// hasAccess reports whether userID owns the idea or collaborates on it.
func hasAccess(db *gorm.DB, ideaID, userID string) bool {
	var count int64
	db.Model(&models.Idea{}).Where("id = ? AND user_id = ?", ideaID, userID).Count(&count)
	if count > 0 {
		return true
	}
	db.Model(&models.IdeaCollaborator{}).Where("idea_id = ? AND user_id = ?", ideaID, userID).Count(&count)
	return count > 0
}

// isOwner reports whether userID owns the idea.
func isOwner(db *gorm.DB, ideaID, userID string) bool {
	var count int64
	db.Model(&models.Idea{}).Where("id = ? AND user_id = ?", ideaID, userID).Count(&count)
	return count > 0
}

func listCollaborators(db *gorm.DB, ideaID string) []CollaboratorResponse {
	collaborators := make([]CollaboratorResponse, 0)
	db.Table("idea_collaborators").
		Select("users.id, users.username, users.email, idea_collaborators.permission_level, idea_collaborators.added_at").
		Joins("JOIN users ON users.id = idea_collaborators.user_id").
		Where("idea_collaborators.idea_id = ?", ideaID).
		Scan(&collaborators)
	return collaborators
}

// CreateIdea creates an idea owned by the caller
// POST /api/ideas
func CreateIdea(c *gin.Context) {
	userID := c.GetString("user_id")

	var req IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	idea := models.Idea{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := database.GetDB().Create(&idea).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea"})
		return
	}

	c.JSON(http.StatusCreated, idea)
}

// GetIdeas lists the caller's ideas
// GET /api/ideas?filter=owned|shared
func GetIdeas(c *gin.Context) {
	userID := c.GetString("user_id")
	db := database.GetDB()
	filter := c.Query("filter")

	owned := make([]IdeaListItem, 0)
	if filter == "" || filter == "owned" {
		db.Table("ideas").
			Select("ideas.id, ideas.user_id, ideas.title, ideas.content, ideas.created_at, ideas.updated_at").
			Where("ideas.user_id = ?", userID).
			Order("ideas.updated_at DESC").
			Scan(&owned)
		for i := range owned {
			owned[i].IsOwner = true
		}
	}

	shared := make([]IdeaListItem, 0)
	if filter == "" || filter == "shared" {
		db.Table("ideas").
			Select("ideas.id, ideas.user_id, ideas.title, ideas.content, ideas.created_at, ideas.updated_at, "+
				"users.username AS owner_username, users.email AS owner_email, idea_collaborators.permission_level").
			Joins("JOIN idea_collaborators ON idea_collaborators.idea_id = ideas.id").
			Joins("JOIN users ON users.id = ideas.user_id").
			Where("idea_collaborators.user_id = ?", userID).
			Order("ideas.updated_at DESC").
			Scan(&shared)
	}

	switch filter {
	case "owned":
		c.JSON(http.StatusOK, owned)
	case "shared":
		c.JSON(http.StatusOK, shared)
	default:
		c.JSON(http.StatusOK, append(owned, shared...))
	}
}

// GetIdeaByID returns one idea with collaborators, enhancements and share state
// GET /api/ideas/:id
func GetIdeaByID(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	var idea models.Idea
	if err := db.First(&idea, "id = ?", ideaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	if !hasAccess(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	enhancements := make([]models.Enhancement, 0)
	db.Where("idea_id = ?", ideaID).Order("created_at DESC").Find(&enhancements)

	var publicShare *models.PublicShare
	var share models.PublicShare
	if err := db.Where("idea_id = ?", ideaID).First(&share).Error; err == nil {
		publicShare = &share
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            idea.ID,
		"user_id":       idea.UserID,
		"title":         idea.Title,
		"content":       idea.Content,
		"created_at":    idea.CreatedAt,
		"updated_at":    idea.UpdatedAt,
		"is_owner":      idea.UserID == userID,
		"collaborators": listCollaborators(db, ideaID),
		"enhancements":  enhancements,
		"public_share":  publicShare,
	})
}

// UpdateIdea updates title/content of an accessible idea
// PUT /api/ideas/:id
func UpdateIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !hasAccess(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	var idea models.Idea
	if err := db.First(&idea, "id = ?", ideaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	idea.Title = req.Title
	idea.Content = req.Content
	if err := db.Save(&idea).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update idea"})
		return
	}

	c.JSON(http.StatusOK, idea)
}

// DeleteIdea removes an idea; owner only
// DELETE /api/ideas/:id
func DeleteIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !isOwner(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete this idea"})
		return
	}

	db.Where("idea_id = ?", ideaID).Delete(&models.IdeaCollaborator{})
	db.Where("idea_id = ?", ideaID).Delete(&models.Enhancement{})
	db.Where("idea_id = ?", ideaID).Delete(&models.PublicShare{})
	if err := db.Delete(&models.Idea{}, "id = ?", ideaID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete idea"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}

// ShareRequest represents the share-idea payload
type ShareRequest struct {
	UserIdentifier  string `json:"userIdentifier" binding:"required"`
	PermissionLevel string `json:"permissionLevel"`
}

// ShareIdea adds a collaborator by email or username; owner only
// POST /api/ideas/:id/share
func ShareIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !isOwner(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can share this idea"})
		return
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIdentifier is required"})
		return
	}

	var target models.User
	err := db.Where("email = ? OR username = ?", req.UserIdentifier, req.UserIdentifier).
		First(&target).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot share with yourself"})
		return
	}

	level := models.PermissionLevel(req.PermissionLevel)
	if level == "" {
		level = models.PermissionEdit
	}

	// Upsert: re-sharing with the same user updates the permission level
	var existing models.IdeaCollaborator
	err = db.Where("idea_id = ? AND user_id = ?", ideaID, target.ID).First(&existing).Error
	if err == nil {
		existing.PermissionLevel = level
		db.Save(&existing)
	} else {
		db.Create(&models.IdeaCollaborator{
			ID:              uuid.NewString(),
			IdeaID:          ideaID,
			UserID:          target.ID,
			PermissionLevel: level,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Idea shared successfully",
		"collaborators": listCollaborators(db, ideaID),
	})
}

// RemoveCollaborator detaches a collaborator; owner only
// DELETE /api/ideas/:id/share/:userId
func RemoveCollaborator(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	targetID := c.Param("userId")
	db := database.GetDB()

	if !isOwner(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can remove collaborators"})
		return
	}

	db.Where("idea_id = ? AND user_id = ?", ideaID, targetID).Delete(&models.IdeaCollaborator{})

	c.JSON(http.StatusOK, gin.H{
		"message":       "Collaborator removed successfully",
		"collaborators": listCollaborators(db, ideaID),
	})
}

// CreatePublicShare creates (or returns) the public link for an idea; owner only
// POST /api/ideas/:id/public-share
func CreatePublicShare(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !isOwner(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can create public links"})
		return
	}

	var share models.PublicShare
	if err := db.Where("idea_id = ?", ideaID).First(&share).Error; err == nil {
		c.JSON(http.StatusOK, share)
		return
	}

	share = models.PublicShare{
		ID:         uuid.NewString(),
		IdeaID:     ideaID,
		ShareToken: uuid.NewString(),
	}
	if err := db.Create(&share).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create public share link"})
		return
	}

	c.JSON(http.StatusOK, share)
}

// RevokePublicShare deletes the public link; owner only
// DELETE /api/ideas/:id/public-share
func RevokePublicShare(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !isOwner(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can revoke public links"})
		return
	}

	db.Where("idea_id = ?", ideaID).Delete(&models.PublicShare{})
	c.JSON(http.StatusOK, gin.H{"message": "Public share link revoked"})
}

// GetPublicIdea serves a publicly shared idea; no authentication
// GET /api/public/ideas/:token
func GetPublicIdea(c *gin.Context) {
	token := c.Param("token")
	db := database.GetDB()

	var share models.PublicShare
	if err := db.Where("share_token = ?", token).First(&share).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found or expired"})
		return
	}

	var idea models.Idea
	if err := db.First(&idea, "id = ?", share.IdeaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found or expired"})
		return
	}

	var owner models.User
	db.First(&owner, "id = ?", idea.UserID)

	enhancements := make([]models.Enhancement, 0)
	db.Where("idea_id = ?", share.IdeaID).Order("created_at DESC").Find(&enhancements)

	c.JSON(http.StatusOK, gin.H{
		"id":             idea.ID,
		"title":          idea.Title,
		"content":        idea.Content,
		"owner_username": owner.Username,
		"created_at":     idea.CreatedAt,
		"updated_at":     idea.UpdatedAt,
		"enhancements":   enhancements,
		"is_public":      true,
	})
}
