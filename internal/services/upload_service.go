package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"teamchat/internal/auth"
	"teamchat/internal/imageprocessor"
	"teamchat/internal/logger"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
	"teamchat/internal/services/dto"
	"teamchat/internal/storage"
	"teamchat/pkg/apperrors"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================
// UPLOAD SERVICE
// ============================================

// UploadService issues short-lived upload URLs, stores the posted bytes
// and resolves storage identifiers to fetchable URLs.
type UploadService interface {
	GenerateUploadURL(userID string) (*dto.UploadURLResponse, error)
	// Store consumes a signed upload token and saves the body behind it.
	Store(ctx context.Context, db *gorm.DB, token, contentType string, body io.Reader) (*dto.UploadResponse, error)
	Get(db *gorm.DB, uploadID string) (*models.Upload, error)
	URL(ctx context.Context, upload *models.Upload) string
	// Open streams a stored object for the local file route.
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	// SweepOrphans deletes uploads older than cutoff that no message references.
	SweepOrphans(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) (int, error)
}

// ============================================
// CONFIG
// ============================================

type UploadConfig struct {
	PublicURL      string
	TokenTTL       time.Duration
	MaxFileSize    int64
	AllowedTypes   []string
	ThumbnailWidth int
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	storage    storage.Storage
	images     *imageprocessor.Processor
	tokens     *auth.TokenManager
	config     UploadConfig
}

func NewUploadService(
	uploadRepo repositories.UploadRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	tokens *auth.TokenManager,
	config UploadConfig,
) UploadService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 15 * time.Minute
	}
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 10 << 20
	}
	return &uploadService{
		uploadRepo: uploadRepo,
		storage:    store,
		images:     images,
		tokens:     tokens,
		config:     config,
	}
}

// ============================================
// METHODS
// ============================================

func (s *uploadService) GenerateUploadURL(userID string) (*dto.UploadURLResponse, error) {
	token, err := s.tokens.Generate(userID, "", auth.PurposeUpload, s.config.TokenTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.UploadURLResponse{
		UploadURL: strings.TrimRight(s.config.PublicURL, "/") + "/api/v1/uploads/" + token,
		ExpiresAt: time.Now().Add(s.config.TokenTTL),
	}, nil
}

func (s *uploadService) Store(ctx context.Context, db *gorm.DB, token, contentType string, body io.Reader) (*dto.UploadResponse, error) {
	claims, err := s.tokens.Parse(token, auth.PurposeUpload)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if !s.isAllowed(mimeType) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
			"content_type": mimeType,
			"allowed":      s.config.AllowedTypes,
		})
	}

	// Read one byte past the limit to detect oversize bodies without trusting Content-Length.
	data, err := io.ReadAll(io.LimitReader(body, s.config.MaxFileSize+1))
	if err != nil {
		return nil, apperrors.NewBadRequestError("failed to read upload body")
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{
			"max_size": humanize.Bytes(uint64(s.config.MaxFileSize)),
		})
	}
	if len(data) == 0 {
		return nil, apperrors.NewBadRequestError("upload body is empty")
	}

	id := uuid.NewString()
	upload := &models.Upload{
		BaseModel:       models.BaseModel{ID: id},
		UserID:          claims.UserID,
		Path:            path.Join("uploads", claims.UserID, id+extensionFor(mimeType)),
		MimeType:        mimeType,
		Size:            int64(len(data)),
		StorageProvider: s.storage.Provider(),
	}

	if err := s.storage.Save(ctx, upload.Path, bytes.NewReader(data), mimeType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	if s.images != nil && s.config.ThumbnailWidth > 0 && strings.HasPrefix(mimeType, "image/") {
		upload.ThumbnailPath = s.saveThumbnail(ctx, upload, data)
	}

	if err := s.uploadRepo.Create(db, upload); err != nil {
		if delErr := s.storage.Delete(ctx, upload.Path); delErr != nil {
			logger.Error("Failed to roll back stored file", "path", upload.Path, "error", delErr)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Upload stored",
		"upload_id", upload.ID,
		"user_id", upload.UserID,
		"size", humanize.Bytes(uint64(upload.Size)),
		"provider", upload.StorageProvider,
	)

	return &dto.UploadResponse{
		StorageID: upload.ID,
		URL:       s.URL(ctx, upload),
	}, nil
}

func (s *uploadService) Get(db *gorm.DB, uploadID string) (*models.Upload, error) {
	upload, err := s.uploadRepo.FindByID(db, uploadID)
	if err != nil {
		return nil, handleError(err)
	}
	return upload, nil
}

func (s *uploadService) URL(ctx context.Context, upload *models.Upload) string {
	if upload == nil {
		return ""
	}
	url, err := s.storage.URL(ctx, upload.Path)
	if err != nil {
		logger.Warn("Failed to resolve upload URL", "upload_id", upload.ID, "error", err)
		return ""
	}
	return url
}

func (s *uploadService) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	reader, err := s.storage.Get(ctx, objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrUploadNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return reader, nil
}

func (s *uploadService) SweepOrphans(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) (int, error) {
	orphans, err := s.uploadRepo.FindOrphans(db, cutoff, limit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range orphans {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		upload := &orphans[i]
		if err := s.storage.Delete(ctx, upload.Path); err != nil {
			logger.Warn("Failed to delete orphaned object", "upload_id", upload.ID, "error", err)
			continue
		}
		if upload.ThumbnailPath != "" {
			if err := s.storage.Delete(ctx, upload.ThumbnailPath); err != nil {
				logger.Warn("Failed to delete orphaned thumbnail", "upload_id", upload.ID, "error", err)
			}
		}
		if err := s.uploadRepo.Delete(db, upload.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ============================================
// HELPERS
// ============================================

func (s *uploadService) isAllowed(mimeType string) bool {
	if len(s.config.AllowedTypes) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedTypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}

// saveThumbnail stores a preview next to the original. Failures only lose the preview.
func (s *uploadService) saveThumbnail(ctx context.Context, upload *models.Upload, data []byte) string {
	thumb, err := s.images.Thumbnail(data, s.config.ThumbnailWidth)
	if err != nil {
		logger.Warn("Failed to build thumbnail", "upload_id", upload.ID, "error", err)
		return ""
	}

	thumbPath := path.Join("uploads", upload.UserID, "thumbs", upload.ID+extensionFor(thumb.ContentType))
	if err := s.storage.Save(ctx, thumbPath, bytes.NewReader(thumb.Data), thumb.ContentType); err != nil {
		logger.Warn("Failed to save thumbnail", "upload_id", upload.ID, "error", err)
		return ""
	}
	return thumbPath
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
