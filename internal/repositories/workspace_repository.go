package repositories

import (
	"errors"

	"teamchat/internal/models"

	"gorm.io/gorm"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

type WorkspaceRepository interface {
	Create(db *gorm.DB, workspace *models.Workspace) error
	FindByID(db *gorm.DB, id string) (*models.Workspace, error)
	// ListByUserID returns workspaces the user is a member of, oldest first.
	ListByUserID(db *gorm.DB, userID string) ([]models.Workspace, error)
	UpdateName(db *gorm.DB, id, name string) error
	UpdateJoinCode(db *gorm.DB, id, joinCode string) error
	// DeleteCascade removes the workspace and everything that belongs to it.
	DeleteCascade(db *gorm.DB, id string) error
}

type WorkspaceRepositoryImpl struct{}

func NewWorkspaceRepository() WorkspaceRepository {
	return &WorkspaceRepositoryImpl{}
}

func (r *WorkspaceRepositoryImpl) Create(db *gorm.DB, workspace *models.Workspace) error {
	return db.Create(workspace).Error
}

func (r *WorkspaceRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := db.First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *WorkspaceRepositoryImpl) ListByUserID(db *gorm.DB, userID string) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := db.Model(&models.Workspace{}).
		Joins("JOIN members ON members.workspace_id = workspaces.id").
		Where("members.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	return workspaces, err
}

func (r *WorkspaceRepositoryImpl) UpdateName(db *gorm.DB, id, name string) error {
	return r.update(db, id, "name", name)
}

func (r *WorkspaceRepositoryImpl) UpdateJoinCode(db *gorm.DB, id, joinCode string) error {
	return r.update(db, id, "join_code", joinCode)
}

func (r *WorkspaceRepositoryImpl) update(db *gorm.DB, id, column string, value interface{}) error {
	result := db.Model(&models.Workspace{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

func (r *WorkspaceRepositoryImpl) DeleteCascade(db *gorm.DB, id string) error {
	for _, model := range []interface{}{
		&models.Reaction{},
		&models.Message{},
		&models.Conversation{},
		&models.Channel{},
		&models.Member{},
	} {
		if err := db.Where("workspace_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&models.Workspace{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}
