package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"idea-collab-api/internal/auth"
	"idea-collab-api/internal/database"
	"idea-collab-api/internal/middleware"
	"idea-collab-api/internal/models"
	"idea-collab-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newIdeaRouter seeds users u-1 (alice) and u-2 (bob) and returns a router
// with the idea endpoints plus tokens for both users.
func newIdeaRouter(t *testing.T) (*gin.Engine, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	require.NoError(t, db.Create(&models.User{ID: "u-1", Email: "alice@example.com", Username: "alice", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.User{ID: "u-2", Email: "bob@example.com", Username: "bob", Password: "x"}).Error)

	r := gin.New()
	r.GET("/api/public/ideas/:token", GetPublicIdea)
	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/ideas", GetIdeas)
		protected.GET("/ideas/:id", GetIdeaByID)
		protected.POST("/ideas", CreateIdea)
		protected.PUT("/ideas/:id", UpdateIdea)
		protected.DELETE("/ideas/:id", DeleteIdea)
		protected.POST("/ideas/:id/share", ShareIdea)
		protected.DELETE("/ideas/:id/share/:userId", RemoveCollaborator)
		protected.POST("/ideas/:id/public-share", CreatePublicShare)
		protected.DELETE("/ideas/:id/public-share", RevokePublicShare)
	}

	aliceToken, err := auth.GenerateToken("u-1", "alice@example.com")
	require.NoError(t, err)
	bobToken, err := auth.GenerateToken("u-2", "bob@example.com")
	require.NoError(t, err)
	return r, aliceToken, bobToken
}

func createIdea(t *testing.T, r *gin.Engine, token, title string) models.Idea {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/ideas", map[string]string{
		"title":   title,
		"content": "initial content",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var idea models.Idea
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idea))
	return idea
}

func TestCreateIdea_RequiresTitle(t *testing.T) {
	r, alice, _ := newIdeaRouter(t)
	w := doJSON(r, http.MethodPost, "/api/ideas", map[string]string{"content": "no title"}, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIdea_AccessDeniedWithoutShare(t *testing.T) {
	r, alice, bob := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Private")

	w := doJSON(r, http.MethodGet, "/api/ideas/"+idea.ID, nil, bob)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestShareIdea_GrantsCollaboratorAccess(t *testing.T) {
	r, alice, bob := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Shared idea")

	w := doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/share", map[string]string{
		"userIdentifier": "bob@example.com",
	}, alice)
	require.Equal(t, http.StatusOK, w.Code)

	// Bob now reads the idea, flagged as non-owner.
	w = doJSON(r, http.MethodGet, "/api/ideas/"+idea.ID, nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, false, got["is_owner"])

	// And it shows up in his shared list.
	w = doJSON(r, http.MethodGet, "/api/ideas?filter=shared", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	var list []IdeaListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "alice", list[0].OwnerUsername)
}

func TestShareIdea_OnlyOwner(t *testing.T) {
	r, alice, bob := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Mine")

	w := doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/share", map[string]string{
		"userIdentifier": "bob@example.com",
	}, bob)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestShareIdea_NotWithYourself(t *testing.T) {
	r, alice, _ := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Mine")

	w := doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/share", map[string]string{
		"userIdentifier": "alice",
	}, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveCollaborator_RevokesAccess(t *testing.T) {
	r, alice, bob := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Shared then revoked")

	doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/share", map[string]string{
		"userIdentifier": "bob",
	}, alice)
	w := doJSON(r, http.MethodDelete, "/api/ideas/"+idea.ID+"/share/u-2", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/ideas/"+idea.ID, nil, bob)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteIdea_OwnerOnly(t *testing.T) {
	r, alice, bob := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Doomed")

	require.Equal(t, http.StatusForbidden,
		doJSON(r, http.MethodDelete, "/api/ideas/"+idea.ID, nil, bob).Code)
	require.Equal(t, http.StatusOK,
		doJSON(r, http.MethodDelete, "/api/ideas/"+idea.ID, nil, alice).Code)
	require.Equal(t, http.StatusNotFound,
		doJSON(r, http.MethodGet, "/api/ideas/"+idea.ID, nil, alice).Code)
}

func TestPublicShare_Lifecycle(t *testing.T) {
	r, alice, _ := newIdeaRouter(t)
	idea := createIdea(t, r, alice, "Public idea")

	w := doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/public-share", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var share models.PublicShare
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	require.NotEmpty(t, share.ShareToken)

	// Creating again returns the same link.
	w = doJSON(r, http.MethodPost, "/api/ideas/"+idea.ID+"/public-share", nil, alice)
	var again models.PublicShare
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	require.Equal(t, share.ShareToken, again.ShareToken)

	// Anyone can read through the token, no auth required.
	req := httptest.NewRequest(http.MethodGet, "/api/public/ideas/"+share.ShareToken, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Public idea")

	// Revoking kills the link.
	doJSON(r, http.MethodDelete, "/api/ideas/"+idea.ID+"/public-share", nil, alice)
	req = httptest.NewRequest(http.MethodGet, "/api/public/ideas/"+share.ShareToken, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
