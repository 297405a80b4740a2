package repositories

import (
	"teamchat/internal/models"

	"gorm.io/gorm"
)

type ReactionRepository interface {
	Add(db *gorm.DB, reaction *models.Reaction) error
	Remove(db *gorm.DB, memberID, messageID, value string) error
	Exists(db *gorm.DB, memberID, messageID, value string) (bool, error)
	// Toggle adds the reaction when absent and removes it when present.
	// It reports whether the reaction exists afterwards.
	Toggle(db *gorm.DB, reaction *models.Reaction) (bool, error)
	ListByMessageIDs(db *gorm.DB, messageIDs []string) (map[string][]models.Reaction, error)
	DeleteByMember(db *gorm.DB, memberID string) error
}

type ReactionRepositoryImpl struct{}

func NewReactionRepository() ReactionRepository {
	return &ReactionRepositoryImpl{}
}

func (r *ReactionRepositoryImpl) Add(db *gorm.DB, reaction *models.Reaction) error {
	return db.Create(reaction).Error
}

func (r *ReactionRepositoryImpl) Remove(db *gorm.DB, memberID, messageID, value string) error {
	return db.Where("member_id = ? AND message_id = ? AND value = ?", memberID, messageID, value).
		Delete(&models.Reaction{}).Error
}

func (r *ReactionRepositoryImpl) Exists(db *gorm.DB, memberID, messageID, value string) (bool, error) {
	var count int64
	err := db.Model(&models.Reaction{}).
		Where("member_id = ? AND message_id = ? AND value = ?", memberID, messageID, value).
		Count(&count).Error
	return count > 0, err
}

func (r *ReactionRepositoryImpl) Toggle(db *gorm.DB, reaction *models.Reaction) (bool, error) {
	exists, err := r.Exists(db, reaction.MemberID, reaction.MessageID, reaction.Value)
	if err != nil {
		return false, err
	}
	if exists {
		return false, r.Remove(db, reaction.MemberID, reaction.MessageID, reaction.Value)
	}
	return true, r.Add(db, reaction)
}

// ListByMessageIDs groups reactions by message, each list ordered by creation time.
func (r *ReactionRepositoryImpl) ListByMessageIDs(db *gorm.DB, messageIDs []string) (map[string][]models.Reaction, error) {
	result := make(map[string][]models.Reaction, len(messageIDs))
	if len(messageIDs) == 0 {
		return result, nil
	}
	var reactions []models.Reaction
	err := db.Where("message_id IN ?", messageIDs).Order("created_at ASC").Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		result[reaction.MessageID] = append(result[reaction.MessageID], reaction)
	}
	return result, nil
}

func (r *ReactionRepositoryImpl) DeleteByMember(db *gorm.DB, memberID string) error {
	return db.Where("member_id = ?", memberID).Delete(&models.Reaction{}).Error
}
