package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/seed"
	"github.com/sewa-org/sewa-backend/internal/service"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func setupRouter(t *testing.T) (*gin.Engine, *service.Services, *repository.Repositories) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewRepositories()
	seed.SeedData(repos)
	svcs := service.NewServices(&service.ServiceDeps{
		Config: &config.Config{
			JWTSecret:      "test-secret",
			JWTExpiryHours: 1,
			CodeRetryLimit: 5,
		},
		Repos: repos,
	})

	r := gin.New()
	r.GET("/guarded",
		AuthMiddleware(svcs.Auth),
		RequirePermission(svcs.Permission, types.PermMemberApprove),
		func(c *gin.Context) {
			claims := GetClaims(c)
			c.JSON(http.StatusOK, gin.H{"username": claims.Username})
		},
	)
	return r, svcs, repos
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewarePassesSuperAdmin(t *testing.T) {
	r, svcs, _ := setupRouter(t)

	result, err := svcs.Auth.Login(context.Background(), "superadmin", "Admin@123")
	require.NoError(t, err)

	w := get(r, result.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "superadmin")
}

func TestRequirePermissionDeniesWithoutGrant(t *testing.T) {
	r, svcs, repos := setupRouter(t)
	ctx := context.Background()

	user, err := svcs.Auth.Register(ctx, service.RegisterInput{
		Username:    "plainmember",
		Email:       "plainmember@example.com",
		Password:    "Secret@123",
		AccountType: types.AccountMember,
		FullName:    "Plain Member",
	})
	require.NoError(t, err)

	member, err := repos.MemberRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	_, err = svcs.Member.Approve(ctx, member.ID)
	require.NoError(t, err)

	result, err := svcs.Auth.Login(ctx, "plainmember", "Secret@123")
	require.NoError(t, err)

	// Members never hold the approve permission
	w := get(r, result.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
