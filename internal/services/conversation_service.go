package services

import (
	"errors"

	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

type ConversationService interface {
	// CreateOrGet returns the direct conversation between the caller and another member,
	// creating it on first use.
	CreateOrGet(db *gorm.DB, userID, workspaceID string, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	Get(db *gorm.DB, userID, conversationID string) (*dto.ConversationResponse, error)
}

type conversationService struct {
	conversationRepo repositories.ConversationRepository
	memberRepo       repositories.MemberRepository
	access           AccessService
}

func NewConversationService(
	conversationRepo repositories.ConversationRepository,
	memberRepo repositories.MemberRepository,
	access AccessService,
) ConversationService {
	return &conversationService{
		conversationRepo: conversationRepo,
		memberRepo:       memberRepo,
		access:           access,
	}
}

func (s *conversationService) CreateOrGet(db *gorm.DB, userID, workspaceID string, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	caller, err := s.access.RequireMember(db, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	other, err := s.memberRepo.FindByID(db, req.MemberID)
	if err != nil {
		return nil, handleError(err)
	}
	if other.WorkspaceID != workspaceID {
		return nil, apperrors.ErrMemberNotFound
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	conversation, err := s.conversationRepo.FindBetween(tx, workspaceID, caller.ID, other.ID)
	if err != nil {
		if !errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.InternalError(err)
		}
		conversation = &models.Conversation{
			WorkspaceID: workspaceID,
			MemberOneID: caller.ID,
			MemberTwoID: other.ID,
		}
		if err := s.conversationRepo.Create(tx, conversation); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewConversationResponse(conversation)
	return &resp, nil
}

func (s *conversationService) Get(db *gorm.DB, userID, conversationID string) (*dto.ConversationResponse, error) {
	conversation, err := s.conversationRepo.FindByID(db, conversationID)
	if err != nil {
		return nil, handleError(err)
	}
	member, err := s.access.RequireMember(db, conversation.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(conversation, member); err != nil {
		return nil, err
	}

	resp := dto.NewConversationResponse(conversation)
	return &resp, nil
}
