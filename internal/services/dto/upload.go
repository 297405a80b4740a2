package dto

import "time"

type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadResponse carries the storage identifier clients attach to messages.
type UploadResponse struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}
