package services

import (
	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

type MemberService interface {
	// Current returns the caller's own member row.
	Current(db *gorm.DB, userID, workspaceID string) (*dto.MemberResponse, error)
	List(db *gorm.DB, userID, workspaceID string) ([]dto.MemberResponse, error)
	Get(db *gorm.DB, userID, memberID string) (*dto.MemberResponse, error)
	UpdateRole(db *gorm.DB, userID, memberID string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	// Remove deletes a member with their messages, reactions and conversations.
	// Admins cannot be removed; members may remove themselves.
	Remove(db *gorm.DB, userID, memberID string) error
}

type memberService struct {
	memberRepo       repositories.MemberRepository
	messageRepo      repositories.MessageRepository
	reactionRepo     repositories.ReactionRepository
	conversationRepo repositories.ConversationRepository
	access           AccessService
	publisher        events.Publisher
}

func NewMemberService(
	memberRepo repositories.MemberRepository,
	messageRepo repositories.MessageRepository,
	reactionRepo repositories.ReactionRepository,
	conversationRepo repositories.ConversationRepository,
	access AccessService,
	publisher events.Publisher,
) MemberService {
	return &memberService{
		memberRepo:       memberRepo,
		messageRepo:      messageRepo,
		reactionRepo:     reactionRepo,
		conversationRepo: conversationRepo,
		access:           access,
		publisher:        publisher,
	}
}

func (s *memberService) Current(db *gorm.DB, userID, workspaceID string) (*dto.MemberResponse, error) {
	member, err := s.access.RequireMember(db, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewMemberResponse(member)
	return &resp, nil
}

func (s *memberService) List(db *gorm.DB, userID, workspaceID string) ([]dto.MemberResponse, error) {
	if _, err := s.access.RequireMember(db, workspaceID, userID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByWorkspace(db, workspaceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, dto.NewMemberResponse(&members[i]))
	}
	return result, nil
}

func (s *memberService) Get(db *gorm.DB, userID, memberID string) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(db, memberID)
	if err != nil {
		return nil, handleError(err)
	}
	if _, err := s.access.RequireMember(db, member.WorkspaceID, userID); err != nil {
		return nil, err
	}
	resp := dto.NewMemberResponse(member)
	return &resp, nil
}

func (s *memberService) UpdateRole(db *gorm.DB, userID, memberID string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(db, memberID)
	if err != nil {
		return nil, handleError(err)
	}
	if _, err := s.access.RequirePermission(db, member.WorkspaceID, userID, auth.ActionManageMembers); err != nil {
		return nil, err
	}

	role := models.MemberRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be admin or member"})
	}
	if err := s.memberRepo.UpdateRole(db, memberID, role); err != nil {
		return nil, handleError(err)
	}
	member.Role = role

	resp := dto.NewMemberResponse(member)
	s.publisher.Publish(events.WorkspaceRoom(member.WorkspaceID), events.MemberUpdated, resp)
	return &resp, nil
}

func (s *memberService) Remove(db *gorm.DB, userID, memberID string) error {
	target, err := s.memberRepo.FindByID(db, memberID)
	if err != nil {
		return handleError(err)
	}

	caller, err := s.access.RequireMember(db, target.WorkspaceID, userID)
	if err != nil {
		return err
	}
	if target.Role == models.MemberRoleAdmin {
		return apperrors.ErrAdminCannotBeRemoved
	}
	if caller.ID != target.ID && !auth.CanPerformAction(caller, auth.ActionManageMembers) {
		return apperrors.ErrAdminRequired
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.reactionRepo.DeleteByMember(tx, target.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.messageRepo.DeleteByMember(tx, target.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.messageRepo.DeleteByConversations(tx, target.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.conversationRepo.DeleteByMember(tx, target.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.memberRepo.Delete(tx, target.ID); err != nil {
		return handleError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.publisher.Publish(events.WorkspaceRoom(target.WorkspaceID), events.MemberRemoved, map[string]string{
		"member_id": target.ID,
		"user_id":   target.UserID,
	})
	s.publisher.RevokeUser(target.UserID, target.WorkspaceID)
	return nil
}
