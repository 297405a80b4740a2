package services

import (
	"errors"

	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

// AccessService answers "may this user see or change that" for every other service
// and for the realtime hub.
type AccessService interface {
	RequireMember(db *gorm.DB, workspaceID, userID string) (*models.Member, error)
	RequirePermission(db *gorm.DB, workspaceID, userID, action string) (*models.Member, error)
	// CanJoinRoom checks a realtime subscription against membership.
	CanJoinRoom(db *gorm.DB, userID, room string) error
	// AuthorizeRoom is CanJoinRoom that also reports the room's workspace.
	AuthorizeRoom(db *gorm.DB, userID, room string) (string, error)
}

type accessService struct {
	memberRepo       repositories.MemberRepository
	channelRepo      repositories.ChannelRepository
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
}

func NewAccessService(
	memberRepo repositories.MemberRepository,
	channelRepo repositories.ChannelRepository,
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
) AccessService {
	return &accessService{
		memberRepo:       memberRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

func (s *accessService) RequireMember(db *gorm.DB, workspaceID, userID string) (*models.Member, error) {
	member, err := s.memberRepo.FindByWorkspaceAndUser(db, workspaceID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrNotWorkspaceMember
		}
		return nil, handleError(err)
	}
	return member, nil
}

func (s *accessService) RequirePermission(db *gorm.DB, workspaceID, userID, action string) (*models.Member, error) {
	member, err := s.RequireMember(db, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !auth.CanPerformAction(member, action) {
		return nil, apperrors.ErrAdminRequired
	}
	return member, nil
}

// requireParticipant rejects members who are not one of the two sides of a conversation.
func requireParticipant(conversation *models.Conversation, member *models.Member) error {
	if conversation.MemberOneID != member.ID && conversation.MemberTwoID != member.ID {
		return apperrors.ErrConversationNotFound
	}
	return nil
}

func (s *accessService) CanJoinRoom(db *gorm.DB, userID, room string) error {
	_, err := s.AuthorizeRoom(db, userID, room)
	return err
}

func (s *accessService) AuthorizeRoom(db *gorm.DB, userID, room string) (string, error) {
	kind, id, err := events.ParseRoom(room)
	if err != nil {
		return "", apperrors.NewBadRequestError(err.Error())
	}

	switch kind {
	case events.KindWorkspace:
		if _, err := s.RequireMember(db, id, userID); err != nil {
			return "", err
		}
		return id, nil

	case events.KindChannel:
		channel, err := s.channelRepo.FindByID(db, id)
		if err != nil {
			return "", handleError(err)
		}
		if _, err := s.RequireMember(db, channel.WorkspaceID, userID); err != nil {
			return "", err
		}
		return channel.WorkspaceID, nil

	case events.KindConversation:
		return s.canSeeConversation(db, id, userID)

	case events.KindThread:
		parent, err := s.messageRepo.FindByID(db, id)
		if err != nil {
			return "", handleError(err)
		}
		if parent.ConversationID != nil {
			return s.canSeeConversation(db, *parent.ConversationID, userID)
		}
		if _, err := s.RequireMember(db, parent.WorkspaceID, userID); err != nil {
			return "", err
		}
		return parent.WorkspaceID, nil
	}
	return "", apperrors.NewBadRequestError("unsupported room")
}

func (s *accessService) canSeeConversation(db *gorm.DB, conversationID, userID string) (string, error) {
	conversation, err := s.conversationRepo.FindByID(db, conversationID)
	if err != nil {
		return "", handleError(err)
	}
	member, err := s.RequireMember(db, conversation.WorkspaceID, userID)
	if err != nil {
		return "", err
	}
	if err := requireParticipant(conversation, member); err != nil {
		return "", err
	}
	return conversation.WorkspaceID, nil
}
