package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xthome/home-manager/internal/models"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken_Admin(t *testing.T) {
	user := &models.User{
		ID:    "admin-1",
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	}

	raw, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	claims, err := ParseToken(raw, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "admin-1", claims.UserID())
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	// Admins act within their own scope.
	assert.Equal(t, "admin-1", claims.AdminScope)
}

func TestGenerateAndParseToken_ViewerScope(t *testing.T) {
	adminID := "admin-1"
	user := &models.User{
		ID:      "viewer-1",
		Email:   "viewer@example.com",
		Role:    models.RoleViewer,
		AdminID: &adminID,
	}

	raw, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	claims, err := ParseToken(raw, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "viewer-1", claims.UserID())
	assert.Equal(t, models.RoleViewer, claims.Role)
	// Viewers act within the inviting admin's scope.
	assert.Equal(t, "admin-1", claims.AdminScope)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &models.User{ID: "u1", Email: "u@example.com", Role: models.RoleAdmin}

	raw, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	_, err = ParseToken(raw, "another-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}
