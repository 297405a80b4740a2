package repositories

import (
	"errors"
	"time"

	"teamchat/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(db *gorm.DB, upload *models.Upload) error
	FindByID(db *gorm.DB, id string) (*models.Upload, error)
	FindByIDs(db *gorm.DB, ids []string) (map[string]*models.Upload, error)
	// FindOrphans returns uploads created before cutoff that no message references.
	FindOrphans(db *gorm.DB, cutoff time.Time, limit int) ([]models.Upload, error)
	Delete(db *gorm.DB, id string) error
}

type uploadRepository struct{}

func NewUploadRepository() UploadRepository {
	return &uploadRepository{}
}

func (r *uploadRepository) Create(db *gorm.DB, upload *models.Upload) error {
	return db.Create(upload).Error
}

func (r *uploadRepository) FindByID(db *gorm.DB, id string) (*models.Upload, error) {
	var upload models.Upload
	if err := db.First(&upload, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepository) FindByIDs(db *gorm.DB, ids []string) (map[string]*models.Upload, error) {
	result := make(map[string]*models.Upload, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var uploads []models.Upload
	if err := db.Where("id IN ?", ids).Find(&uploads).Error; err != nil {
		return nil, err
	}
	for i := range uploads {
		result[uploads[i].ID] = &uploads[i]
	}
	return result, nil
}

func (r *uploadRepository) FindOrphans(db *gorm.DB, cutoff time.Time, limit int) ([]models.Upload, error) {
	var uploads []models.Upload
	referenced := db.Model(&models.Message{}).Select("image_id").Where("image_id IS NOT NULL")
	err := db.Where("created_at < ?", cutoff).
		Where("id NOT IN (?)", referenced).
		Order("created_at ASC").
		Limit(limit).
		Find(&uploads).Error
	return uploads, err
}

func (r *uploadRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Upload{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
