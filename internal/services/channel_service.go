package services

import (
	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/naming"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/gorm"
)

type ChannelService interface {
	Create(db *gorm.DB, userID, workspaceID string, req *dto.CreateChannelRequest) (*dto.ChannelResponse, error)
	List(db *gorm.DB, userID, workspaceID string) ([]dto.ChannelResponse, error)
	Get(db *gorm.DB, userID, channelID string) (*dto.ChannelResponse, error)
	Update(db *gorm.DB, userID, channelID string, req *dto.UpdateChannelRequest) (*dto.ChannelResponse, error)
	Delete(db *gorm.DB, userID, channelID string) error
}

type channelService struct {
	channelRepo repositories.ChannelRepository
	access      AccessService
	publisher   events.Publisher
}

func NewChannelService(
	channelRepo repositories.ChannelRepository,
	access AccessService,
	publisher events.Publisher,
) ChannelService {
	return &channelService{
		channelRepo: channelRepo,
		access:      access,
		publisher:   publisher,
	}
}

func (s *channelService) Create(db *gorm.DB, userID, workspaceID string, req *dto.CreateChannelRequest) (*dto.ChannelResponse, error) {
	if _, err := s.access.RequirePermission(db, workspaceID, userID, auth.ActionManageChannels); err != nil {
		return nil, err
	}

	name := naming.NormalizeChannelName(req.Name)
	if !naming.ValidChannelName(name) {
		return nil, apperrors.ValidationError(map[string]string{"name": "Must be between 3 and 80 characters"})
	}

	channel := &models.Channel{WorkspaceID: workspaceID, Name: name}
	if err := s.channelRepo.Create(db, channel); err != nil {
		return nil, handleError(err)
	}

	resp := dto.NewChannelResponse(channel)
	s.publisher.Publish(events.WorkspaceRoom(workspaceID), events.ChannelCreated, resp)
	return &resp, nil
}

func (s *channelService) List(db *gorm.DB, userID, workspaceID string) ([]dto.ChannelResponse, error) {
	if _, err := s.access.RequireMember(db, workspaceID, userID); err != nil {
		return nil, err
	}

	channels, err := s.channelRepo.ListByWorkspace(db, workspaceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.ChannelResponse, 0, len(channels))
	for i := range channels {
		result = append(result, dto.NewChannelResponse(&channels[i]))
	}
	return result, nil
}

func (s *channelService) Get(db *gorm.DB, userID, channelID string) (*dto.ChannelResponse, error) {
	channel, err := s.channelRepo.FindByID(db, channelID)
	if err != nil {
		return nil, handleError(err)
	}
	if _, err := s.access.RequireMember(db, channel.WorkspaceID, userID); err != nil {
		return nil, err
	}

	resp := dto.NewChannelResponse(channel)
	return &resp, nil
}

func (s *channelService) Update(db *gorm.DB, userID, channelID string, req *dto.UpdateChannelRequest) (*dto.ChannelResponse, error) {
	channel, err := s.channelRepo.FindByID(db, channelID)
	if err != nil {
		return nil, handleError(err)
	}
	if _, err := s.access.RequirePermission(db, channel.WorkspaceID, userID, auth.ActionManageChannels); err != nil {
		return nil, err
	}

	name := naming.NormalizeChannelName(req.Name)
	if !naming.ValidChannelName(name) {
		return nil, apperrors.ValidationError(map[string]string{"name": "Must be between 3 and 80 characters"})
	}
	if err := s.channelRepo.UpdateName(db, channel, name); err != nil {
		return nil, handleError(err)
	}

	resp := dto.NewChannelResponse(channel)
	s.publisher.Publish(events.WorkspaceRoom(channel.WorkspaceID), events.ChannelUpdated, resp)
	return &resp, nil
}

func (s *channelService) Delete(db *gorm.DB, userID, channelID string) error {
	channel, err := s.channelRepo.FindByID(db, channelID)
	if err != nil {
		return handleError(err)
	}
	if _, err := s.access.RequirePermission(db, channel.WorkspaceID, userID, auth.ActionManageChannels); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.channelRepo.Delete(tx, channelID); err != nil {
		return handleError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	payload := map[string]string{"id": channelID}
	s.publisher.Publish(events.WorkspaceRoom(channel.WorkspaceID), events.ChannelDeleted, payload)
	s.publisher.Publish(events.ChannelRoom(channelID), events.ChannelDeleted, payload)
	return nil
}
