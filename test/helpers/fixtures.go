package helpers

import (
	"encoding/json"
	"net/http"
	"testing"

	"teamchat/internal/services/dto"

	"github.com/stretchr/testify/require"
)

// SignUp registers a user through the API and returns the auth response.
func SignUp(t *testing.T, ts *TestServer, name, email string) dto.AuthResponse {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth
}

// CreateWorkspace creates a workspace and returns it together with its default channel.
func CreateWorkspace(t *testing.T, ts *TestServer, token, name string) (dto.WorkspaceResponse, dto.ChannelResponse) {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/workspaces", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var workspace dto.WorkspaceResponse
	require.NoError(t, json.Unmarshal([]byte(body), &workspace))

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/workspaces/"+workspace.ID+"/channels", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var channels []dto.ChannelResponse
	require.NoError(t, json.Unmarshal([]byte(body), &channels))
	require.NotEmpty(t, channels)
	return workspace, channels[0]
}

// Decode unmarshals body into T and fails the test on error.
func Decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}
