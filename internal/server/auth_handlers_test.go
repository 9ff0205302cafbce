package server

import (
	"net/http"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app, _ := setupTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"email":    "new@example.com",
				"password": "Password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate email",
			body: map[string]string{
				"email":    "new@example.com",
				"password": "Password123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak password",
			body: map[string]string{
				"email":    "weak@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid email",
			body: map[string]string{
				"email":    "not-an-email",
				"password": "Password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing fields",
			body:           map[string]string{"email": "x@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", tt.body, "")
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestSignup_ReturnsTokenWithoutProfile(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "fresh@example.com",
		"password": "Password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Token)
	assert.Empty(t, body.User.Username)
	assert.False(t, body.User.Anonymous)
}

func TestLogin(t *testing.T) {
	_, app, db := setupTestServer(t)
	seedUser(t, db, "login@example.com", "loginuser")

	t.Run("valid credentials", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "Password123",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "WrongPassword1",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "Password123",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAnonymousLogin(t *testing.T) {
	_, app, db := setupTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/anonymous", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Token)
	assert.True(t, body.User.Anonymous)
	assert.Empty(t, body.User.Username)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("anonymous = ?", true).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogout_RevokesToken(t *testing.T) {
	s, app, db := setupTestServer(t)
	user := seedUser(t, db, "bye@example.com", "leaver")
	bearer := bearerFor(t, s, user.ID)

	// Token works before logout
	resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Same token is rejected afterwards
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", nil, bearer)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
