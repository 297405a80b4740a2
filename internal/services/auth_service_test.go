package services_test

import (
	"testing"

	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	f := newFixture(t)

	signUp, err := f.svc.AuthService.SignUp(f.db, &dto.SignUpRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signUp.AccessToken)
	assert.NotEmpty(t, signUp.RefreshToken)
	assert.Equal(t, "alice@example.com", signUp.User.Email)

	claims, err := f.svc.AuthService.ParseAccessToken(signUp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signUp.User.ID, claims.UserID)

	signIn, err := f.svc.AuthService.SignIn(f.db, &dto.SignInRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, signUp.User.ID, signIn.User.ID)

	_, err = f.svc.AuthService.SignIn(f.db, &dto.SignInRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	req := &dto.SignUpRequest{Name: "Bob", Email: "bob@example.com", Password: "password123"}

	_, err := f.svc.AuthService.SignUp(f.db, req)
	require.NoError(t, err)

	_, err = f.svc.AuthService.SignUp(f.db, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.AuthService.SignUp(f.db, &dto.SignUpRequest{Name: "Carol", Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := f.svc.AuthService.Refresh(f.db, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.svc.AuthService.Refresh(f.db, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.svc.AuthService.SignOut(f.db, second.RefreshToken))
	require.NoError(t, f.svc.AuthService.SignOut(f.db, "unknown-token"))

	_, err = f.svc.AuthService.Refresh(f.db, second.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_RejectsUploadTokenAsAccess(t *testing.T) {
	f := newFixture(t)
	url, err := f.svc.UploadService.GenerateUploadURL("user-1")
	require.NoError(t, err)

	token := url.UploadURL[len("http://localhost:8080/api/v1/uploads/"):]
	_, err = f.svc.AuthService.ParseAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
