package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"idea-collab-api/internal/database"
	"idea-collab-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	r := gin.New()
	r.POST("/api/auth/register", Register)
	r.POST("/api/auth/login", Login)
	return r
}

func doJSON(r *gin.Engine, method, path string, payload any, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "s3cret-pw",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice@example.com", resp.User.Email)
	require.NotEmpty(t, resp.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newAuthRouter(t)

	payload := map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "s3cret-pw",
	}
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/auth/register", payload, "").Code)

	payload["username"] = "alice2"
	require.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/api/auth/register", payload, "").Code)
}

func TestLogin_Success(t *testing.T) {
	r := newAuthRouter(t)

	doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"username": "bob",
		"password": "s3cret-pw",
	}, "")

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "s3cret-pw",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newAuthRouter(t)

	doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"username": "bob",
		"password": "s3cret-pw",
	}, "")

	w := doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
