package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"teamchat/internal/auth"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	SignUp(db *gorm.DB, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(db *gorm.DB, req *dto.SignInRequest) (*dto.AuthResponse, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	// SignOut revokes the refresh token. Unknown tokens are ignored.
	SignOut(db *gorm.DB, refreshToken string) error
	Me(db *gorm.DB, userID string) (*dto.UserResponse, error)
	ParseAccessToken(token string) (*auth.Claims, error)
}

type AuthConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	cfg              AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	cfg AuthConfig,
) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		cfg:              cfg,
	}
}

func (s *AuthServiceImpl) SignUp(db *gorm.DB, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleError(err)
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) SignIn(db *gorm.DB, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(db, user)
}

// Refresh rotates the refresh token: the old one is deleted and a new pair is issued.
func (s *AuthServiceImpl) Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
	if err != nil {
		return nil, handleError(err)
	}
	if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
		return nil, handleError(err)
	}
	if time.Now().After(stored.ExpiresAt) {
		// Commit so the expired token is gone either way.
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	resp, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *AuthServiceImpl) SignOut(db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByToken(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Me(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) ParseAccessToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token, auth.PurposeAccess)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Generate(user.ID, user.Email, auth.PurposeAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := generateRandomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.refreshTokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}

func generateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
