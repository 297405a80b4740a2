package repositories

import (
	"errors"

	"teamchat/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMemberNotFound = errors.New("member not found")
)

type MemberRepository interface {
	Create(db *gorm.DB, member *models.Member) error
	FindByID(db *gorm.DB, id string) (*models.Member, error)
	FindByWorkspaceAndUser(db *gorm.DB, workspaceID, userID string) (*models.Member, error)
	FindByIDs(db *gorm.DB, ids []string) (map[string]*models.Member, error)
	ListByWorkspace(db *gorm.DB, workspaceID string) ([]models.Member, error)
	UpdateRole(db *gorm.DB, id string, role models.MemberRole) error
	Delete(db *gorm.DB, id string) error
}

type MemberRepositoryImpl struct{}

func NewMemberRepository() MemberRepository {
	return &MemberRepositoryImpl{}
}

func (r *MemberRepositoryImpl) Create(db *gorm.DB, member *models.Member) error {
	return db.Omit("User").Create(member).Error
}

func (r *MemberRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Member, error) {
	var member models.Member
	if err := db.Preload("User").First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepositoryImpl) FindByWorkspaceAndUser(db *gorm.DB, workspaceID, userID string) (*models.Member, error) {
	var member models.Member
	err := db.Preload("User").
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) (map[string]*models.Member, error) {
	result := make(map[string]*models.Member, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var members []models.Member
	if err := db.Preload("User").Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	for i := range members {
		result[members[i].ID] = &members[i]
	}
	return result, nil
}

func (r *MemberRepositoryImpl) ListByWorkspace(db *gorm.DB, workspaceID string) ([]models.Member, error) {
	var members []models.Member
	err := db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *MemberRepositoryImpl) UpdateRole(db *gorm.DB, id string, role models.MemberRole) error {
	result := db.Model(&models.Member{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
