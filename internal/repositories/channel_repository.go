package repositories

import (
	"errors"

	"teamchat/internal/models"

	"gorm.io/gorm"
)

var (
	ErrChannelNotFound   = errors.New("channel not found")
	ErrChannelNameExists = errors.New("channel name already exists")
)

type ChannelRepository interface {
	Create(db *gorm.DB, channel *models.Channel) error
	FindByID(db *gorm.DB, id string) (*models.Channel, error)
	ListByWorkspace(db *gorm.DB, workspaceID string) ([]models.Channel, error)
	UpdateName(db *gorm.DB, channel *models.Channel, name string) error
	// Delete removes the channel together with its messages and their reactions.
	Delete(db *gorm.DB, id string) error
}

type ChannelRepositoryImpl struct{}

func NewChannelRepository() ChannelRepository {
	return &ChannelRepositoryImpl{}
}

func (r *ChannelRepositoryImpl) nameTaken(db *gorm.DB, workspaceID, name, exceptID string) (bool, error) {
	var count int64
	q := db.Model(&models.Channel{}).Where("workspace_id = ? AND name = ?", workspaceID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ChannelRepositoryImpl) Create(db *gorm.DB, channel *models.Channel) error {
	taken, err := r.nameTaken(db, channel.WorkspaceID, channel.Name, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrChannelNameExists
	}
	return db.Create(channel).Error
}

func (r *ChannelRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Channel, error) {
	var channel models.Channel
	if err := db.First(&channel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepositoryImpl) ListByWorkspace(db *gorm.DB, workspaceID string) ([]models.Channel, error) {
	var channels []models.Channel
	err := db.Where("workspace_id = ?", workspaceID).Order("created_at ASC").Find(&channels).Error
	return channels, err
}

func (r *ChannelRepositoryImpl) UpdateName(db *gorm.DB, channel *models.Channel, name string) error {
	taken, err := r.nameTaken(db, channel.WorkspaceID, name, channel.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrChannelNameExists
	}
	if err := db.Model(channel).Update("name", name).Error; err != nil {
		return err
	}
	channel.Name = name
	return nil
}

func (r *ChannelRepositoryImpl) Delete(db *gorm.DB, id string) error {
	messageIDs := db.Model(&models.Message{}).Select("id").Where("channel_id = ?", id)
	if err := db.Where("message_id IN (?)", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := db.Where("channel_id = ?", id).Delete(&models.Message{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Channel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}
