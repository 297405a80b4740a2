package services

import (
	"errors"

	"teamchat/internal/pagination"
	"teamchat/internal/repositories"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

// handleError maps repository sentinels to API errors. Unknown errors become 500s.
func handleError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrWorkspaceNotFound):
		return apperrors.ErrWorkspaceNotFound
	case errors.Is(err, repositories.ErrMemberNotFound):
		return apperrors.ErrMemberNotFound
	case errors.Is(err, repositories.ErrChannelNotFound):
		return apperrors.ErrChannelNotFound
	case errors.Is(err, repositories.ErrChannelNameExists):
		return apperrors.ErrChannelNameTaken
	case errors.Is(err, repositories.ErrConversationNotFound):
		return apperrors.ErrConversationNotFound
	case errors.Is(err, repositories.ErrMessageNotFound):
		return apperrors.ErrMessageNotFound
	case errors.Is(err, repositories.ErrUploadNotFound):
		return apperrors.ErrUploadNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrRefreshTokenNotFound):
		return apperrors.ErrInvalidToken
	case errors.Is(err, pagination.ErrInvalidCursor):
		return apperrors.ErrInvalidCursor
	case errors.Is(err, repositories.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
