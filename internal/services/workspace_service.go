package services

import (
	"errors"
	"strings"

	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/naming"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

// DefaultChannelName is created with every workspace.
const DefaultChannelName = "general"

type WorkspaceService interface {
	// Create makes the caller the first admin and opens the default channel.
	Create(db *gorm.DB, userID string, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	List(db *gorm.DB, userID string) ([]dto.WorkspaceResponse, error)
	Get(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceResponse, error)
	// Info is visible to any signed-in user so the join page can render.
	Info(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceInfoResponse, error)
	Update(db *gorm.DB, userID, workspaceID string, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	Delete(db *gorm.DB, userID, workspaceID string) error
	NewJoinCode(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceResponse, error)
	Join(db *gorm.DB, userID, workspaceID string, req *dto.JoinWorkspaceRequest) (*dto.WorkspaceResponse, error)
}

type workspaceService struct {
	workspaceRepo repositories.WorkspaceRepository
	memberRepo    repositories.MemberRepository
	channelRepo   repositories.ChannelRepository
	access        AccessService
	publisher     events.Publisher
}

func NewWorkspaceService(
	workspaceRepo repositories.WorkspaceRepository,
	memberRepo repositories.MemberRepository,
	channelRepo repositories.ChannelRepository,
	access AccessService,
	publisher events.Publisher,
) WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		channelRepo:   channelRepo,
		access:        access,
		publisher:     publisher,
	}
}

func (s *workspaceService) Create(db *gorm.DB, userID string, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	joinCode, err := naming.GenerateJoinCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	workspace := &models.Workspace{
		Name:     strings.TrimSpace(req.Name),
		UserID:   userID,
		JoinCode: joinCode,
	}
	if err := s.workspaceRepo.Create(tx, workspace); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.memberRepo.Create(tx, &models.Member{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        models.MemberRoleAdmin,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.channelRepo.Create(tx, &models.Channel{
		WorkspaceID: workspace.ID,
		Name:        DefaultChannelName,
	}); err != nil {
		return nil, handleError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewWorkspaceResponse(workspace, true)
	return &resp, nil
}

func (s *workspaceService) List(db *gorm.DB, userID string) ([]dto.WorkspaceResponse, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.WorkspaceResponse, 0, len(workspaces))
	for i := range workspaces {
		result = append(result, dto.NewWorkspaceResponse(&workspaces[i], false))
	}
	return result, nil
}

func (s *workspaceService) Get(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceResponse, error) {
	member, err := s.access.RequireMember(db, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	workspace, err := s.workspaceRepo.FindByID(db, workspaceID)
	if err != nil {
		return nil, handleError(err)
	}

	resp := dto.NewWorkspaceResponse(workspace, auth.IsAdmin(member))
	return &resp, nil
}

func (s *workspaceService) Info(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceInfoResponse, error) {
	workspace, err := s.workspaceRepo.FindByID(db, workspaceID)
	if err != nil {
		return nil, handleError(err)
	}

	_, err = s.memberRepo.FindByWorkspaceAndUser(db, workspaceID, userID)
	if err != nil && !errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, apperrors.InternalError(err)
	}

	return &dto.WorkspaceInfoResponse{
		ID:       workspace.ID,
		Name:     workspace.Name,
		IsMember: err == nil,
	}, nil
}

func (s *workspaceService) Update(db *gorm.DB, userID, workspaceID string, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	if _, err := s.access.RequirePermission(db, workspaceID, userID, auth.ActionUpdateWorkspace); err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.UpdateName(db, workspaceID, strings.TrimSpace(req.Name)); err != nil {
		return nil, handleError(err)
	}

	workspace, err := s.workspaceRepo.FindByID(db, workspaceID)
	if err != nil {
		return nil, handleError(err)
	}

	resp := dto.NewWorkspaceResponse(workspace, true)
	s.publisher.Publish(events.WorkspaceRoom(workspaceID), events.WorkspaceUpdated, dto.NewWorkspaceResponse(workspace, false))
	return &resp, nil
}

func (s *workspaceService) Delete(db *gorm.DB, userID, workspaceID string) error {
	if _, err := s.access.RequirePermission(db, workspaceID, userID, auth.ActionDeleteWorkspace); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.workspaceRepo.DeleteCascade(tx, workspaceID); err != nil {
		return handleError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.publisher.Publish(events.WorkspaceRoom(workspaceID), events.WorkspaceDeleted, map[string]string{"id": workspaceID})
	s.publisher.RevokeWorkspace(workspaceID)
	return nil
}

func (s *workspaceService) NewJoinCode(db *gorm.DB, userID, workspaceID string) (*dto.WorkspaceResponse, error) {
	if _, err := s.access.RequirePermission(db, workspaceID, userID, auth.ActionRotateJoinCode); err != nil {
		return nil, err
	}

	joinCode, err := naming.GenerateJoinCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.workspaceRepo.UpdateJoinCode(db, workspaceID, joinCode); err != nil {
		return nil, handleError(err)
	}

	workspace, err := s.workspaceRepo.FindByID(db, workspaceID)
	if err != nil {
		return nil, handleError(err)
	}
	resp := dto.NewWorkspaceResponse(workspace, true)
	return &resp, nil
}

func (s *workspaceService) Join(db *gorm.DB, userID, workspaceID string, req *dto.JoinWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	workspace, err := s.workspaceRepo.FindByID(db, workspaceID)
	if err != nil {
		return nil, handleError(err)
	}

	if workspace.JoinCode != naming.NormalizeJoinCode(req.JoinCode) {
		return nil, apperrors.ErrInvalidJoinCode
	}

	_, err = s.memberRepo.FindByWorkspaceAndUser(db, workspaceID, userID)
	if err == nil {
		return nil, apperrors.ErrAlreadyMember
	}
	if !errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, apperrors.InternalError(err)
	}

	member := &models.Member{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        models.MemberRoleMember,
	}
	if err := s.memberRepo.Create(db, member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.publisher.Publish(events.WorkspaceRoom(workspaceID), events.MemberJoined, map[string]string{
		"member_id": member.ID,
		"user_id":   userID,
	})

	resp := dto.NewWorkspaceResponse(workspace, false)
	return &resp, nil
}
