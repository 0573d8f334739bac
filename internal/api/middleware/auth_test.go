package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/repository"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

type fakeUserRepo struct {
	byLookup map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, &apperrors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return nil, &apperrors.ErrNotFound{Resource: "user", ID: externalID}
}

func (f *fakeUserRepo) GetByAPIKeyLookup(ctx context.Context, lookup string) (*domain.User, error) {
	user, ok := f.byLookup[lookup]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: "by api key"}
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }

func authTestRouter(t *testing.T, apiKey string, isAdmin bool, adminKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := HashAPIKey(apiKey)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "anna@example.com",
		IsAdmin:      isAdmin,
		APIKeyHash:   hash,
		APIKeyLookup: LookupHash(apiKey),
	}
	repos := &repository.Repositories{
		User: &fakeUserRepo{byLookup: map[string]*domain.User{user.APIKeyLookup: user}},
	}
	cfg := &config.Config{AdminAPIKey: adminKey}

	router := gin.New()
	router.GET("/me", AuthMiddleware(repos, zap.NewNop()), func(c *gin.Context) {
		u, ok := GetUserFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	router.GET("/admin", AdminMiddleware(cfg, repos, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/cart", SessionMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": GetSessionID(c)})
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidKey(t *testing.T) {
	router := authTestRouter(t, "secret-key-123", false, "")

	w := doRequest(router, "/me", "Bearer secret-key-123", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anna@example.com")
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	router := authTestRouter(t, "secret-key-123", false, "")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "secret-key-123"},
		{"wrong scheme", "Basic secret-key-123"},
		{"empty key", "Bearer "},
		{"unknown key", "Bearer some-other-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "/me", tt.header, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	t.Run("admin key grants access", func(t *testing.T) {
		router := authTestRouter(t, "user-key", false, "admin-key-789")
		w := doRequest(router, "/admin", "Bearer admin-key-789", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin user grants access", func(t *testing.T) {
		router := authTestRouter(t, "user-key", true, "")
		w := doRequest(router, "/admin", "Bearer user-key", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		router := authTestRouter(t, "user-key", false, "admin-key-789")
		w := doRequest(router, "/admin", "Bearer user-key", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		router := authTestRouter(t, "user-key", false, "admin-key-789")
		w := doRequest(router, "/admin", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSessionMiddleware(t *testing.T) {
	router := authTestRouter(t, "user-key", false, "")

	w := doRequest(router, "/cart", "", "sess-42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sess-42")

	w = doRequest(router, "/cart", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
