package handlers

import (
	"net/http"
	"time"

	"idea-collab-api/internal/ai"
	"idea-collab-api/internal/database"
	"idea-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	aiEnhancer ai.Enhancer
	aiLimiter  = ai.NewRateLimiter(15, time.Minute)
)

// InitAI wires the enhancer used by the AI endpoints and resets the
// per-user rate limiter.
func InitAI(e ai.Enhancer) {
	aiEnhancer = e
	aiLimiter = ai.NewRateLimiter(15, time.Minute)
}

// EnhanceIdea runs the AI enhancement for an idea and stores the result
// POST /api/ai/enhance/:id
func EnhanceIdea(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !hasAccess(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if !aiLimiter.Allow(userID) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "Rate limit exceeded. Please wait a moment before trying again.",
			"retryAfter": 60,
		})
		return
	}

	var idea models.Idea
	if err := db.First(&idea, "id = ?", ideaID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	if aiEnhancer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI enhancement is not configured"})
		return
	}

	enhanced, err := aiEnhancer.Enhance(c.Request.Context(), idea.Title, idea.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enhance idea with AI"})
		return
	}

	enhancement := models.Enhancement{
		ID:              uuid.NewString(),
		IdeaID:          ideaID,
		OriginalContent: idea.Content,
		EnhancedContent: enhanced,
	}
	if err := db.Create(&enhancement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store enhancement"})
		return
	}

	c.JSON(http.StatusOK, enhancement)
}

// GetEnhancements lists stored enhancements for an idea
// GET /api/ai/enhancements/:id
func GetEnhancements(c *gin.Context) {
	userID := c.GetString("user_id")
	ideaID := c.Param("id")
	db := database.GetDB()

	if !hasAccess(db, ideaID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	enhancements := make([]models.Enhancement, 0)
	db.Where("idea_id = ?", ideaID).Order("created_at DESC").Find(&enhancements)

	c.JSON(http.StatusOK, enhancements)
}
