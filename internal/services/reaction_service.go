package services

import (
	"strings"

	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

type ReactionService interface {
	// Toggle adds the caller's reaction or removes it when already present.
	Toggle(db *gorm.DB, userID, messageID string, req *dto.ToggleReactionRequest) (*dto.ToggleReactionResponse, error)
}

type reactionService struct {
	reactionRepo repositories.ReactionRepository
	messageRepo  repositories.MessageRepository
	access       AccessService
	publisher    events.Publisher
}

func NewReactionService(
	reactionRepo repositories.ReactionRepository,
	messageRepo repositories.MessageRepository,
	access AccessService,
	publisher events.Publisher,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		messageRepo:  messageRepo,
		access:       access,
		publisher:    publisher,
	}
}

func (s *reactionService) Toggle(db *gorm.DB, userID, messageID string, req *dto.ToggleReactionRequest) (*dto.ToggleReactionResponse, error) {
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, apperrors.ValidationError(map[string]string{"value": "This field is required"})
	}

	message, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		return nil, handleError(err)
	}
	member, err := s.access.RequirePermission(db, message.WorkspaceID, userID, auth.ActionReact)
	if err != nil {
		return nil, err
	}
	if message.ConversationID != nil {
		if err := s.access.CanJoinRoom(db, userID, events.ConversationRoom(*message.ConversationID)); err != nil {
			return nil, err
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	active, err := s.reactionRepo.Toggle(tx, &models.Reaction{
		WorkspaceID: message.WorkspaceID,
		MessageID:   messageID,
		MemberID:    member.ID,
		Value:       value,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rows, err := s.reactionRepo.ListByMessageIDs(tx, []string{messageID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ToggleReactionResponse{
		MessageID: messageID,
		Value:     value,
		Active:    active,
		Reactions: summarizeReactions(rows[messageID]),
	}
	s.publisher.Publish(eventRoom(message), events.ReactionToggled, resp)
	return resp, nil
}
