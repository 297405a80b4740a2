package integration_test

import (
	"net/http"
	"testing"

	"teamchat/internal/services/dto"
	"teamchat/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)

	signUp := helpers.SignUp(t, ts, "Ada", "ada@example.com")
	assert.Equal(t, "ada@example.com", signUp.User.Email)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"name": "Ada again", "email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/sign-in", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/sign-in", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	signIn := helpers.Decode[dto.AuthResponse](t, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", signIn.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	me := helpers.Decode[dto.UserResponse](t, body)
	assert.Equal(t, signUp.User.ID, me.ID)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/workspaces", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/workspaces", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
