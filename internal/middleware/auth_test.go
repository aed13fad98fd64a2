package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/gin-gonic/gin"
)

// stubStore answers user lookups from a map; every other Store method is
// unused by the middleware.
type stubStore struct {
	database.Store
	users map[int64]*models.User
}

func (s *stubStore) GetUserByID(id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func setupAuthTest(t *testing.T) (*gin.Engine, *auth.TokenManager, *stubStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	store := &stubStore{users: map[int64]*models.User{}}

	r := gin.New()
	r.GET("/protected", Authenticate(tokens, store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUser(c).ID})
	})
	r.GET("/admin-only", Authenticate(tokens, store), RequireRole(models.UserTypeAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, tokens, store
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	r, tokens, store := setupAuthTest(t)
	store.users[7] = &models.User{ID: 7, Email: "marie@example.com", Type: models.UserTypeOwner}

	token, err := tokens.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := get(r, "/protected", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	for name, header := range map[string]string{
		"no header":    "",
		"no bearer":    "Token abc",
		"bare token":   "abc.def.ghi",
		"empty bearer": "Bearer",
	} {
		w := get(r, "/protected", header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w.Code)
		}
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	w := get(r, "/protected", "Bearer not-a-real-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	r, tokens, _ := setupAuthTest(t)

	// A syntactically valid token whose account no longer exists.
	token, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := get(r, "/protected", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r, tokens, store := setupAuthTest(t)
	store.users[1] = &models.User{ID: 1, Email: "owner@example.com", Type: models.UserTypeOwner}
	store.users[2] = &models.User{ID: 2, Email: "admin@example.com", Type: models.UserTypeAdmin}

	ownerToken, _ := tokens.Issue(1)
	adminToken, _ := tokens.Issue(2)

	if w := get(r, "/admin-only", "Bearer "+ownerToken); w.Code != http.StatusForbidden {
		t.Errorf("owner: status = %d, want 403", w.Code)
	}
	if w := get(r, "/admin-only", "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", w.Code)
	}
}
