package repositories

import (
	"errors"

	"teamchat/internal/models"

	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	Create(db *gorm.DB, conversation *models.Conversation) error
	FindByID(db *gorm.DB, id string) (*models.Conversation, error)
	// FindBetween looks up the conversation of two members in either direction.
	FindBetween(db *gorm.DB, workspaceID, memberA, memberB string) (*models.Conversation, error)
	DeleteByMember(db *gorm.DB, memberID string) error
}

type conversationRepository struct{}

func NewConversationRepository() ConversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) Create(db *gorm.DB, conversation *models.Conversation) error {
	return db.Create(conversation).Error
}

func (r *conversationRepository) FindByID(db *gorm.DB, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := db.First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) FindBetween(db *gorm.DB, workspaceID, memberA, memberB string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := db.Where("workspace_id = ?", workspaceID).
		Where("((member_one_id = ? AND member_two_id = ?) OR (member_one_id = ? AND member_two_id = ?))",
			memberA, memberB, memberB, memberA).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) DeleteByMember(db *gorm.DB, memberID string) error {
	return db.Where("member_one_id = ? OR member_two_id = ?", memberID, memberID).
		Delete(&models.Conversation{}).Error
}
