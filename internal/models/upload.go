package models

// Upload is a stored blob. Its ID is the storage identifier clients attach to messages.
type Upload struct {
	BaseModel
	UserID          string `gorm:"type:varchar(36);not null;index"`
	Path            string `gorm:"not null"`
	ThumbnailPath   string
	MimeType        string `gorm:"type:varchar(100)"`
	Size            int64
	StorageProvider string `gorm:"type:varchar(20);default:'local'"` // 'local', 's3', 'cloudflare_r2'
}
