package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordResetAntiEnumeration(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "alice", "alice@example.com", model.RoleUser)

	known := doJSON(t, a, http.MethodPost, "/auth/request-password-reset", "", gin.H{
		"email": "alice@example.com",
	})
	unknown := doJSON(t, a, http.MethodPost, "/auth/request-password-reset", "", gin.H{
		"email": "nobody@example.com",
	})

	// Registered and unregistered emails must be indistinguishable
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestRequestPasswordResetPersistsToken(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)

	w := doJSON(t, a, http.MethodPost, "/auth/request-password-reset", "", gin.H{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var token model.PasswordResetToken
	require.NoError(t, a.DB.Where("user_id = ?", user.ID).First(&token).Error)
	assert.Len(t, token.Token, 64)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func seedResetToken(t *testing.T, a *API, userID string, expiresAt time.Time) string {
	t.Helper()

	token := &model.PasswordResetToken{
		Token:     "tok-" + userID + expiresAt.Format("150405.000"),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	require.NoError(t, a.DB.Create(token).Error)

	return token.Token
}

func TestResetPassword(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	token := seedResetToken(t, a, user.ID, time.Now().Add(10*time.Minute))

	w := doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        token,
		"new_password": "brandnewpassword",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Old password is out, new one is in
	w = doJSON(t, a, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, a, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "brandnewpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPasswordSingleUse(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	token := seedResetToken(t, a, user.ID, time.Now().Add(10*time.Minute))

	w := doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        token,
		"new_password": "brandnewpassword",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        token,
		"new_password": "anotherpassword1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "a consumed token must not work twice")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	token := seedResetToken(t, a, user.ID, time.Now().Add(-time.Minute))

	w := doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        token,
		"new_password": "brandnewpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, a.DB.Model(model.PasswordResetToken{}).Where("token = ?", token).Count(&count).Error)
	assert.Zero(t, count, "expired tokens are dropped on sight")
}

func TestResetPasswordBadInput(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	token := seedResetToken(t, a, user.ID, time.Now().Add(10*time.Minute))

	w := doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        "no-such-token",
		"new_password": "brandnewpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, a, http.MethodPost, "/auth/reset-password", "", gin.H{
		"token":        token,
		"new_password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
