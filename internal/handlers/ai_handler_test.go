package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"idea-collab-api/internal/auth"
	"idea-collab-api/internal/database"
	"idea-collab-api/internal/middleware"
	"idea-collab-api/internal/models"
	"idea-collab-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeEnhancer returns a canned enhancement without touching the network.
type fakeEnhancer struct {
	result string
}

func (f *fakeEnhancer) Enhance(_ context.Context, _, _ string) (string, error) {
	return f.result, nil
}

func newAIRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	require.NoError(t, db.Create(&models.User{ID: "u-1", Email: "alice@example.com", Username: "alice", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.Idea{ID: "idea-1", UserID: "u-1", Title: "Kiosk", Content: "v1"}).Error)

	InitAI(&fakeEnhancer{result: "ENHANCED CONTENT"})

	r := gin.New()
	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.POST("/ai/enhance/:id", EnhanceIdea)
		protected.GET("/ai/enhancements/:id", GetEnhancements)
	}

	token, err := auth.GenerateToken("u-1", "alice@example.com")
	require.NoError(t, err)
	return r, token
}

func TestEnhanceIdea_StoresAndReturnsEnhancement(t *testing.T) {
	r, token := newAIRouter(t)

	w := doJSON(r, http.MethodPost, "/api/ai/enhance/idea-1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var enhancement models.Enhancement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enhancement))
	require.Equal(t, "ENHANCED CONTENT", enhancement.EnhancedContent)
	require.Equal(t, "v1", enhancement.OriginalContent)

	w = doJSON(r, http.MethodGet, "/api/ai/enhancements/idea-1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Enhancement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestEnhanceIdea_AccessDenied(t *testing.T) {
	r, _ := newAIRouter(t)
	stranger, err := auth.GenerateToken("u-9", "mallory@example.com")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/ai/enhance/idea-1", nil, stranger)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestEnhanceIdea_RateLimited(t *testing.T) {
	r, token := newAIRouter(t)

	for i := 0; i < 15; i++ {
		w := doJSON(r, http.MethodPost, "/api/ai/enhance/idea-1", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/ai/enhance/idea-1", nil, token)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "retryAfter")
}
