package repositories

import (
	"errors"
	"time"

	"teamchat/internal/models"
	"teamchat/internal/pagination"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageFilter selects one stream. ParentMessageID wins over the other two:
// a thread lists replies only, a channel or conversation lists top-level messages only.
type MessageFilter struct {
	ChannelID       string
	ConversationID  string
	ParentMessageID string
}

// ThreadSummary aggregates the replies of one parent message.
type ThreadSummary struct {
	Count        int
	LastReplyAt  time.Time
	LastMemberID string
}

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	FindByID(db *gorm.DB, id string) (*models.Message, error)
	// List returns up to limit messages newest-first, strictly older than after when set.
	List(db *gorm.DB, filter MessageFilter, after *pagination.Position, limit int) ([]models.Message, error)
	ThreadSummaries(db *gorm.DB, parentIDs []string) (map[string]ThreadSummary, error)
	UpdateBody(db *gorm.DB, id string, body datatypes.JSON, at time.Time) error
	Delete(db *gorm.DB, id string) error
	DeleteByMember(db *gorm.DB, memberID string) error
	DeleteByConversations(db *gorm.DB, memberID string) error
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Omit("Member", "Image").Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Message, error) {
	var message models.Message
	err := db.Preload("Member.User").Preload("Image").First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) List(db *gorm.DB, filter MessageFilter, after *pagination.Position, limit int) ([]models.Message, error) {
	q := db.Model(&models.Message{}).Preload("Member.User").Preload("Image")

	switch {
	case filter.ParentMessageID != "":
		q = q.Where("parent_message_id = ?", filter.ParentMessageID)
	case filter.ChannelID != "":
		q = q.Where("channel_id = ? AND parent_message_id IS NULL", filter.ChannelID)
	case filter.ConversationID != "":
		q = q.Where("conversation_id = ? AND parent_message_id IS NULL", filter.ConversationID)
	default:
		return nil, errors.New("message filter is empty")
	}

	if after != nil {
		t := after.Time()
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", t, t, after.ID)
	}

	var messages []models.Message
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) ThreadSummaries(db *gorm.DB, parentIDs []string) (map[string]ThreadSummary, error) {
	result := make(map[string]ThreadSummary, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var replies []models.Message
	err := db.Select("id", "parent_message_id", "member_id", "created_at").
		Where("parent_message_id IN ?", parentIDs).
		Order("created_at DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	for _, reply := range replies {
		parentID := *reply.ParentMessageID
		summary, seen := result[parentID]
		if !seen {
			summary.LastReplyAt = reply.CreatedAt
			summary.LastMemberID = reply.MemberID
		}
		summary.Count++
		result[parentID] = summary
	}
	return result, nil
}

func (r *MessageRepositoryImpl) UpdateBody(db *gorm.DB, id string, body datatypes.JSON, at time.Time) error {
	result := db.Model(&models.Message{}).Where("id = ?", id).
		Updates(map[string]interface{}{"body": body, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes the message, its thread replies and the reactions on all of them.
func (r *MessageRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if err := r.deleteReplies(db, []string{id}); err != nil {
		return err
	}
	if err := db.Where("message_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// DeleteByMember removes every message authored by the member, the replies to those
// messages and the reactions on all of them.
func (r *MessageRepositoryImpl) DeleteByMember(db *gorm.DB, memberID string) error {
	var parentIDs []string
	if err := db.Model(&models.Message{}).
		Where("member_id = ? AND parent_message_id IS NULL", memberID).
		Pluck("id", &parentIDs).Error; err != nil {
		return err
	}
	if err := r.deleteReplies(db, parentIDs); err != nil {
		return err
	}

	messageIDs := db.Model(&models.Message{}).Select("id").Where("member_id = ?", memberID)
	if err := db.Where("message_id IN (?)", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	return db.Where("member_id = ?", memberID).Delete(&models.Message{}).Error
}

// deleteReplies removes every reply to parentIDs with its reactions.
func (r *MessageRepositoryImpl) deleteReplies(db *gorm.DB, parentIDs []string) error {
	if len(parentIDs) == 0 {
		return nil
	}
	var replyIDs []string
	if err := db.Model(&models.Message{}).
		Where("parent_message_id IN ?", parentIDs).
		Pluck("id", &replyIDs).Error; err != nil {
		return err
	}
	if len(replyIDs) == 0 {
		return nil
	}
	if err := db.Where("message_id IN ?", replyIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", replyIDs).Delete(&models.Message{}).Error
}

// DeleteByConversations removes messages of every conversation the member takes part in.
func (r *MessageRepositoryImpl) DeleteByConversations(db *gorm.DB, memberID string) error {
	conversationIDs := db.Model(&models.Conversation{}).Select("id").
		Where("member_one_id = ? OR member_two_id = ?", memberID, memberID)
	messageIDs := db.Model(&models.Message{}).Select("id").Where("conversation_id IN (?)", conversationIDs)
	if err := db.Where("message_id IN (?)", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	return db.Where("conversation_id IN (?)", conversationIDs).Delete(&models.Message{}).Error
}
