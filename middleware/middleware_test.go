package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bcplughub/models"
	"bcplughub/testutils"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(utils.ContextUserID)})
}

func authRouter(repo *testutils.MemoryUserRepo, optional bool) *gin.Engine {
	r := gin.New()
	g := r.Group("/users/:id")
	g.Use(JWTAuthUserMiddleware(repo, nil, optional), MatchPathUser("id"))
	g.GET("", whoami)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issue(t *testing.T, repo *testutils.MemoryUserRepo, userID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, userID+"@bc.edu", time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.AddTokenHash(userID, utils.HashToken(token)))
	return token
}

func TestJWTAuth_Required(t *testing.T) {
	repo := testutils.NewMemoryUserRepo(&models.User{ID: "u1", BCEmail: "u1@bc.edu"})
	r := authRouter(repo, false)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/users/u1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/users/u1", "not-a-jwt").Code)

	token := issue(t, repo, "u1")
	w := get(r, "/users/u1", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	repo := testutils.NewMemoryUserRepo(&models.User{ID: "u1", BCEmail: "u1@bc.edu"})
	r := authRouter(repo, false)

	token := issue(t, repo, "u1")
	require.NoError(t, repo.RemoveTokenHash("u1", utils.HashToken(token)))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/users/u1", token).Code)
}

func TestJWTAuth_OptionalAndPathMatch(t *testing.T) {
	repo := testutils.NewMemoryUserRepo(
		&models.User{ID: "u1", BCEmail: "u1@bc.edu"},
		&models.User{ID: "u2", BCEmail: "u2@bc.edu"},
	)
	r := authRouter(repo, true)

	assert.Equal(t, http.StatusOK, get(r, "/users/u2", "").Code)

	token := issue(t, repo, "u1")
	w := get(r, "/users/u2", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/", "").Code)
}

func TestRateLimiterEviction(t *testing.T) {
	store := newRateLimiterStore(10)
	start := time.Now()
	store.getLimiter("10.0.0.1", start)
	store.getLimiter("10.0.0.2", start.Add(9*time.Minute))

	store.evict(start.Add(11 * time.Minute))
	assert.Len(t, store.visitors, 1)
	assert.Contains(t, store.visitors, "10.0.0.2")
}

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
